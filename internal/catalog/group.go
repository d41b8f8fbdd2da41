package catalog

import (
	"slices"

	"github.com/dukerupert/menuboard/internal/model"
)

// GroupByCategory partitions items by effective category. Each bucket keeps
// the input order of its items. The returned category names are sorted and
// distinct, and never nil.
func GroupByCategory(items []model.MenuItem) ([]string, map[string][]model.MenuItem) {
	groups := make(map[string][]model.MenuItem)
	categories := []string{}
	for _, item := range items {
		c := EffectiveCategory(item)
		if _, seen := groups[c]; !seen {
			categories = append(categories, c)
		}
		groups[c] = append(groups[c], item)
	}
	slices.Sort(categories)
	return categories, groups
}

// Sections returns the groups in category order, ready to render.
func Sections(items []model.MenuItem) []Group {
	categories, groups := GroupByCategory(items)
	sections := make([]Group, 0, len(categories))
	for _, c := range categories {
		sections = append(sections, Group{Category: c, Items: groups[c]})
	}
	return sections
}

// Categories returns the distinct explicit categories in first-seen order.
// Items without a category do not contribute "Other".
func Categories(items []model.MenuItem) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, item := range items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, item.Category)
	}
	return out
}
