// Package catalog derives the views every menu screen renders from a flat,
// already-fetched list of menu items: category sections for the customer
// menu, and the filtered, pinned and paginated table for the dashboards.
//
// Everything here is a pure function of its inputs. Callers re-fetch the full
// list after a mutation and project again; nothing is patched incrementally.
package catalog

import (
	"fmt"
	"strings"

	"github.com/dukerupert/menuboard/internal/model"
)

// OtherCategory is the effective category of an item without one.
const OtherCategory = "Other"

// DefaultPageSize applies when a page size below 1 is requested.
const DefaultPageSize = 10

// EffectiveCategory returns the item's category, or OtherCategory when empty.
func EffectiveCategory(item model.MenuItem) string {
	if item.Category == "" {
		return OtherCategory
	}
	return item.Category
}

// EffectiveStatus treats an empty status as active.
func EffectiveStatus(status string) string {
	if status == "" {
		return model.StatusActive
	}
	return status
}

// StatusFilter selects items or restaurants by effective status. The zero
// value matches everything.
type StatusFilter string

const (
	StatusAll      StatusFilter = ""
	StatusActive   StatusFilter = model.StatusActive
	StatusInactive StatusFilter = model.StatusInactive
)

// ParseStatusFilter accepts "", "all", "active" and "inactive", ignoring case.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case model.StatusActive:
		return StatusActive, nil
	case model.StatusInactive:
		return StatusInactive, nil
	default:
		return StatusAll, fmt.Errorf("unknown status filter %q", s)
	}
}

func (f StatusFilter) String() string {
	if f == StatusAll {
		return "all"
	}
	return string(f)
}

// Matches reports whether a record with the given raw status passes the filter.
func (f StatusFilter) Matches(status string) bool {
	return f == StatusAll || EffectiveStatus(status) == string(f)
}

// Group is one category section of a menu.
type Group struct {
	Category string           `json:"category"`
	Items    []model.MenuItem `json:"items"`
}

// RestaurantLookup resolves a restaurant id to its display name. It returns
// "" for unknown ids.
type RestaurantLookup func(id int64) string

// LookupFrom builds a RestaurantLookup over an already-fetched restaurant list.
func LookupFrom(restaurants []model.Restaurant) RestaurantLookup {
	names := make(map[int64]string, len(restaurants))
	for _, r := range restaurants {
		names[r.ID] = r.Name
	}
	return func(id int64) string { return names[id] }
}
