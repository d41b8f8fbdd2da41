package catalog

import (
	"math/rand/v2"

	"github.com/dukerupert/menuboard/internal/model"
)

// Session holds the filter, pin and page state of one dashboard table. It is
// not safe for concurrent use.
type Session struct {
	filter   Filter
	pinnedID *int64
	page     int
	pageSize int
	rng      *rand.Rand
}

// NewSession returns a session on page 1 with the default page size. rng may
// be nil.
func NewSession(rng *rand.Rand) *Session {
	return &Session{page: 1, pageSize: DefaultPageSize, rng: rng}
}

func (s *Session) Filter() Filter { return s.filter }
func (s *Session) Page() int      { return s.page }
func (s *Session) PageSize() int  { return s.pageSize }

// PinnedID returns the current pin, or nil.
func (s *Session) PinnedID() *int64 {
	if s.pinnedID == nil {
		return nil
	}
	id := *s.pinnedID
	return &id
}

// SetFilter replaces the filter. Any pin is dropped and the page resets to 1.
func (s *Session) SetFilter(f Filter) {
	s.filter = f
	s.pinnedID = nil
	s.page = 1
}

// Roll pins a random item from the full, unfiltered list and clears the
// filter so the pick is visible. An empty list leaves the session unchanged.
func (s *Session) Roll(items []model.MenuItem) bool {
	id, ok := RandomPick(items, s.rng)
	if !ok {
		return false
	}
	s.filter = Filter{}
	s.pinnedID = &id
	s.page = 1
	return true
}

func (s *Session) ClearPin() { s.pinnedID = nil }

// GoTo moves to page when it lies in [1, totalPages] and reports whether the
// page changed.
func (s *Session) GoTo(page, totalPages int) bool {
	if page < 1 || page > totalPages || page == s.page {
		return false
	}
	s.page = page
	return true
}

// SetPageSize ignores n below 1. Otherwise it resets the page to 1.
func (s *Session) SetPageSize(n int) {
	if n < 1 {
		return
	}
	s.pageSize = n
	s.page = 1
}

// View projects items with the session state.
func (s *Session) View(items []model.MenuItem, lookup RestaurantLookup) View {
	return Project(items, Query{
		Filter:   s.filter,
		PinnedID: s.pinnedID,
		Page:     s.page,
		PageSize: s.pageSize,
	}, lookup)
}
