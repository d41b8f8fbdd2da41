package catalog

import (
	"strconv"
	"strings"

	"github.com/dukerupert/menuboard/internal/model"
)

// Filter is a conjunction of independent predicates. A zero field imposes
// no constraint.
type Filter struct {
	RestaurantID   string       `json:"restaurantId,omitempty"`
	ItemName       string       `json:"itemName,omitempty"`
	RestaurantName string       `json:"restaurantName,omitempty"`
	PriceMin       *float64     `json:"priceMin,omitempty"`
	PriceMax       *float64     `json:"priceMax,omitempty"`
	Status         StatusFilter `json:"status,omitempty"`
}

// IsZero reports whether the filter passes every item.
func (f Filter) IsZero() bool {
	return f.RestaurantID == "" && f.ItemName == "" && f.RestaurantName == "" &&
		f.PriceMin == nil && f.PriceMax == nil && f.Status == StatusAll
}

// Match reports whether item satisfies every set predicate. lookup is only
// consulted for the restaurant-name predicate and may be nil.
func (f Filter) Match(item model.MenuItem, lookup RestaurantLookup) bool {
	if f.RestaurantID != "" {
		if item.RestaurantID == nil || strconv.FormatInt(*item.RestaurantID, 10) != f.RestaurantID {
			return false
		}
	}
	if f.ItemName != "" && !containsFold(item.ItemName, f.ItemName) {
		return false
	}
	if f.RestaurantName != "" {
		var name string
		if item.RestaurantID != nil && lookup != nil {
			name = lookup(*item.RestaurantID)
		}
		if !containsFold(name, f.RestaurantName) {
			return false
		}
	}
	// NaN fails both comparisons.
	price := item.Price.Float()
	if f.PriceMin != nil && !(price >= *f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && !(price <= *f.PriceMax) {
		return false
	}
	return f.Status.Matches(item.Status)
}

// FilterItems returns the items matching f in their input order. The input
// slice is not modified.
func FilterItems(items []model.MenuItem, f Filter, lookup RestaurantLookup) []model.MenuItem {
	out := make([]model.MenuItem, 0, len(items))
	for _, item := range items {
		if f.Match(item, lookup) {
			out = append(out, item)
		}
	}
	return out
}

// FilterRestaurants is the restaurant-management variant: a case-insensitive
// name substring and a status filter.
func FilterRestaurants(restaurants []model.Restaurant, query string, status StatusFilter) []model.Restaurant {
	out := make([]model.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if query != "" && !containsFold(r.Name, query) {
			continue
		}
		if !status.Matches(r.Status) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
