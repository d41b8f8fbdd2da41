package catalog

import (
	"math/rand/v2"

	"github.com/dukerupert/menuboard/internal/model"
)

// Promote moves the pinned item to the front and keeps the others in order.
// A nil pin, or a pin not present in items, returns the items unchanged.
func Promote(items []model.MenuItem, pinnedID *int64) []model.MenuItem {
	out := make([]model.MenuItem, len(items))
	copy(out, items)
	if pinnedID == nil {
		return out
	}
	for i, item := range out {
		if item.ID != *pinnedID {
			continue
		}
		copy(out[1:i+1], out[:i])
		out[0] = item
		break
	}
	return out
}

// RandomPick returns the id of a uniformly chosen item. ok is false for an
// empty list. A nil rng uses the package-level source.
func RandomPick(items []model.MenuItem, rng *rand.Rand) (id int64, ok bool) {
	if len(items) == 0 {
		return 0, false
	}
	var i int
	if rng != nil {
		i = rng.IntN(len(items))
	} else {
		i = rand.IntN(len(items))
	}
	return items[i].ID, true
}

// Query is the full input of one projection.
type Query struct {
	Filter   Filter
	PinnedID *int64
	Page     int
	PageSize int
}

// View is the projection a dashboard table renders.
type View struct {
	Items      []model.MenuItem `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
	PinnedID   *int64           `json:"pinnedId,omitempty"`
	// Pinned is true when the pinned item survived filtering and leads Items'
	// first page.
	Pinned bool `json:"pinned"`
}

// Project filters, promotes the pin, then paginates.
func Project(items []model.MenuItem, q Query, lookup RestaurantLookup) View {
	filtered := FilterItems(items, q.Filter, lookup)
	ordered := Promote(filtered, q.PinnedID)
	page := Paginate(ordered, q.Page, q.PageSize)

	pinned := q.PinnedID != nil && len(ordered) > 0 && ordered[0].ID == *q.PinnedID
	return View{
		Items:      page.Items,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
		TotalItems: page.TotalItems,
		PinnedID:   q.PinnedID,
		Pinned:     pinned,
	}
}
