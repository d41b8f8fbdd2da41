package catalog

import "github.com/dukerupert/menuboard/internal/model"

// Menu is the customer-facing menu of one restaurant.
type Menu struct {
	Restaurant model.Restaurant `json:"restaurant"`
	Categories []string         `json:"categories"`
	Sections   []Group          `json:"sections"`
}

// BuildMenu groups the restaurant's active items into sections. Inactive
// items are hidden from customers.
func BuildMenu(r model.Restaurant, items []model.MenuItem) Menu {
	visible := FilterItems(items, Filter{Status: StatusActive}, nil)
	categories, _ := GroupByCategory(visible)
	return Menu{
		Restaurant: r,
		Categories: categories,
		Sections:   Sections(visible),
	}
}
