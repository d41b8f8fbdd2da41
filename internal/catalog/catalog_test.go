package catalog

import (
	"encoding/json"
	"math/rand/v2"
	"slices"
	"sort"
	"testing"

	"github.com/dukerupert/menuboard/internal/model"
)

func ptr[T any](v T) *T { return &v }

func decodeItems(t *testing.T, raw string) []model.MenuItem {
	t.Helper()
	var items []model.MenuItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return items
}

func ids(items []model.MenuItem) []int64 {
	out := make([]int64, len(items))
	for i, m := range items {
		out[i] = m.ID
	}
	return out
}

// sampleItems spans two restaurants, missing categories, string prices and
// every status form.
func sampleItems(t *testing.T) []model.MenuItem {
	return decodeItems(t, `[
		{"id": 1, "item_name": "Falafel Wrap", "price": "5", "category": "", "restaurantId": 1},
		{"id": 2, "item_name": "Mint Lemonade", "price": 7, "category": "Drinks", "restaurantId": 1, "status": "active"},
		{"id": 3, "item_name": "Turkish Coffee", "price": "12.50", "category": "Drinks", "restaurantId": 2},
		{"id": 4, "item_name": "Kunafa", "price": 12.5, "category": "Desserts", "restaurantId": 2, "status": "inactive"},
		{"id": 5, "item_name": "Mystery Plate", "price": "ask", "category": "Specials"},
		{"id": 6, "item_name": "Shawarma Plate", "price": 18, "category": "Mains", "restaurantId": 1}
	]`)
}

func TestEffectiveCategory(t *testing.T) {
	if got := EffectiveCategory(model.MenuItem{}); got != "Other" {
		t.Errorf("empty category = %q, want Other", got)
	}
	if got := EffectiveCategory(model.MenuItem{Category: "Drinks"}); got != "Drinks" {
		t.Errorf("category = %q, want Drinks", got)
	}
}

func TestGroupByCategoryPreservesMultiset(t *testing.T) {
	items := sampleItems(t)
	categories, groups := GroupByCategory(items)

	var flat []int64
	for _, c := range categories {
		flat = append(flat, ids(groups[c])...)
	}
	want := ids(items)
	slices.Sort(flat)
	slices.Sort(want)
	if !slices.Equal(flat, want) {
		t.Errorf("flattened ids = %v, want %v", flat, want)
	}
}

func TestGroupByCategorySortedUnique(t *testing.T) {
	items := sampleItems(t)
	categories, groups := GroupByCategory(items)

	if !sort.StringsAreSorted(categories) {
		t.Errorf("categories not sorted: %v", categories)
	}
	if len(slices.Compact(slices.Clone(categories))) != len(categories) {
		t.Errorf("categories have duplicates: %v", categories)
	}
	if len(groups) != len(categories) {
		t.Errorf("len(groups) = %d, want %d", len(groups), len(categories))
	}

	// First-seen order within a bucket.
	drinks := ids(groups["Drinks"])
	if !slices.Equal(drinks, []int64{2, 3}) {
		t.Errorf("Drinks = %v, want [2 3]", drinks)
	}
}

func TestGroupByCategoryEmpty(t *testing.T) {
	categories, groups := GroupByCategory(nil)
	if categories == nil {
		t.Error("expected non-nil empty category list")
	}
	if len(categories) != 0 || len(groups) != 0 {
		t.Errorf("categories = %v, groups = %v", categories, groups)
	}
	if s := Sections(nil); len(s) != 0 {
		t.Errorf("sections = %v, want empty", s)
	}
}

func TestWorkedExample(t *testing.T) {
	items := decodeItems(t, `[{"id":1,"category":null,"price":"5"},{"id":2,"category":"Drinks","price":7}]`)

	got := FilterItems(items, Filter{PriceMin: ptr(6.0)}, nil)
	if !slices.Equal(ids(got), []int64{2}) {
		t.Errorf("filtered = %v, want [2]", ids(got))
	}

	categories, _ := GroupByCategory(items)
	if !slices.Equal(categories, []string{"Drinks", "Other"}) {
		t.Errorf("categories = %v, want [Drinks Other]", categories)
	}
}

func TestSections(t *testing.T) {
	sections := Sections(sampleItems(t))

	var names []string
	for _, s := range sections {
		names = append(names, s.Category)
	}
	want := []string{"Desserts", "Drinks", "Mains", "Other", "Specials"}
	if !slices.Equal(names, want) {
		t.Errorf("sections = %v, want %v", names, want)
	}
}

func TestCategories(t *testing.T) {
	got := Categories(sampleItems(t))
	want := []string{"Drinks", "Desserts", "Specials", "Mains"}
	if !slices.Equal(got, want) {
		t.Errorf("categories = %v, want %v", got, want)
	}
}

func TestFilterItems(t *testing.T) {
	items := sampleItems(t)
	lookup := LookupFrom([]model.Restaurant{
		{ID: 1, Name: "Damascus Grill"},
		{ID: 2, Name: "Aleppo Sweets"},
	})

	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{"zero filter", Filter{}, []int64{1, 2, 3, 4, 5, 6}},
		{"restaurant id", Filter{RestaurantID: "2"}, []int64{3, 4}},
		{"unknown restaurant id", Filter{RestaurantID: "9"}, []int64{}},
		{"item name case-insensitive", Filter{ItemName: "PLATE"}, []int64{5, 6}},
		{"restaurant name", Filter{RestaurantName: "aleppo"}, []int64{3, 4}},
		{"price min", Filter{PriceMin: ptr(10.0)}, []int64{3, 4, 6}},
		{"price max", Filter{PriceMax: ptr(7.0)}, []int64{1, 2}},
		{"price range", Filter{PriceMin: ptr(6.0), PriceMax: ptr(13.0)}, []int64{2, 3, 4}},
		{"status active counts empty", Filter{Status: StatusActive}, []int64{1, 2, 3, 5, 6}},
		{"status inactive", Filter{Status: StatusInactive}, []int64{4}},
		{"conjunction", Filter{RestaurantID: "1", PriceMin: ptr(6.0), ItemName: "a"}, []int64{2, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterItems(items, tt.filter, lookup)
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("ids = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

// Every kept item satisfies the filter and every dropped one violates it.
func TestFilterSoundAndComplete(t *testing.T) {
	items := sampleItems(t)
	filters := []Filter{
		{PriceMin: ptr(6.0)},
		{RestaurantID: "1", Status: StatusActive},
		{ItemName: "e", PriceMax: ptr(12.5)},
	}
	for _, f := range filters {
		kept := FilterItems(items, f, nil)
		keptIDs := ids(kept)
		for _, m := range items {
			in := slices.Contains(keptIDs, m.ID)
			if in != f.Match(m, nil) {
				t.Errorf("filter %+v: item %d kept=%v match=%v", f, m.ID, in, !in)
			}
		}
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	items := sampleItems(t)
	before := ids(items)
	FilterItems(items, Filter{PriceMin: ptr(10.0)}, nil)
	Promote(items, ptr(int64(6)))
	if !slices.Equal(ids(items), before) {
		t.Errorf("input reordered to %v", ids(items))
	}
}

func TestPriceCoercionFiltersAlike(t *testing.T) {
	items := decodeItems(t, `[{"id":1,"item_name":"a","price":"12.50"},{"id":2,"item_name":"b","price":12.5}]`)
	got := FilterItems(items, Filter{PriceMin: ptr(10.0)}, nil)
	if !slices.Equal(ids(got), []int64{1, 2}) {
		t.Errorf("ids = %v, want [1 2]", ids(got))
	}
}

func TestNaNPriceFailsComparisons(t *testing.T) {
	items := decodeItems(t, `[{"id":5,"item_name":"x","price":"ask"}]`)
	if got := FilterItems(items, Filter{PriceMin: ptr(0.0)}, nil); len(got) != 0 {
		t.Errorf("priceMin kept NaN item")
	}
	if got := FilterItems(items, Filter{PriceMax: ptr(1e9)}, nil); len(got) != 0 {
		t.Errorf("priceMax kept NaN item")
	}
	if got := FilterItems(items, Filter{}, nil); len(got) != 1 {
		t.Errorf("zero filter dropped NaN item")
	}
}

func TestItemWithoutRestaurantNeverMatchesRestaurantFilter(t *testing.T) {
	items := []model.MenuItem{{ID: 1, ItemName: "x"}}
	if got := FilterItems(items, Filter{RestaurantID: "0"}, nil); len(got) != 0 {
		t.Errorf("got %v, want none", ids(got))
	}
	if got := FilterItems(items, Filter{RestaurantName: "a"}, LookupFrom(nil)); len(got) != 0 {
		t.Errorf("got %v, want none", ids(got))
	}
}

func TestFilterRestaurants(t *testing.T) {
	rs := []model.Restaurant{
		{ID: 1, Name: "Damascus Grill", Status: "active"},
		{ID: 2, Name: "Aleppo Sweets", Status: "inactive"},
		{ID: 3, Name: "Grill House"},
	}

	got := FilterRestaurants(rs, "grill", StatusAll)
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("grill = %+v", got)
	}
	got = FilterRestaurants(rs, "", StatusActive)
	if len(got) != 2 {
		t.Errorf("active = %d, want 2", len(got))
	}
	got = FilterRestaurants(rs, "", StatusInactive)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("inactive = %+v", got)
	}
}

func TestPromote(t *testing.T) {
	items := sampleItems(t)

	got := Promote(items, ptr(int64(4)))
	if !slices.Equal(ids(got), []int64{4, 1, 2, 3, 5, 6}) {
		t.Errorf("promoted = %v", ids(got))
	}

	got = Promote(items, ptr(int64(99)))
	if !slices.Equal(ids(got), ids(items)) {
		t.Errorf("absent pin changed order: %v", ids(got))
	}

	got = Promote(items, nil)
	if !slices.Equal(ids(got), ids(items)) {
		t.Errorf("nil pin changed order: %v", ids(got))
	}
}

func TestProjectPinSurvivesFilter(t *testing.T) {
	items := sampleItems(t)

	v := Project(items, Query{Filter: Filter{RestaurantID: "1"}, PinnedID: ptr(int64(6))}, nil)
	if !v.Pinned || v.Items[0].ID != 6 {
		t.Errorf("items = %v, pinned = %v", ids(v.Items), v.Pinned)
	}
	if !slices.Equal(ids(v.Items), []int64{6, 1, 2}) {
		t.Errorf("items = %v, want [6 1 2]", ids(v.Items))
	}

	// Pinned item filtered out: no visible effect.
	v = Project(items, Query{Filter: Filter{RestaurantID: "2"}, PinnedID: ptr(int64(6))}, nil)
	if v.Pinned {
		t.Error("pin reported for a filtered-out item")
	}
	if !slices.Equal(ids(v.Items), []int64{3, 4}) {
		t.Errorf("items = %v, want [3 4]", ids(v.Items))
	}
}

func TestPaginate(t *testing.T) {
	seq := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name       string
		page, size int
		wantItems  []int
		wantPage   int
		wantTotal  int
	}{
		{"first", 1, 3, []int{1, 2, 3}, 1, 3},
		{"last partial", 3, 3, []int{7}, 3, 3},
		{"clamped high", 9, 3, []int{7}, 3, 3},
		{"clamped low", 0, 3, []int{1, 2, 3}, 1, 3},
		{"default size", 1, 0, []int{1, 2, 3, 4, 5, 6, 7}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(seq, tt.page, tt.size)
			if !slices.Equal(p.Items, tt.wantItems) {
				t.Errorf("items = %v, want %v", p.Items, tt.wantItems)
			}
			if p.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.Page, tt.wantPage)
			}
			if p.TotalPages != tt.wantTotal {
				t.Errorf("totalPages = %d, want %d", p.TotalPages, tt.wantTotal)
			}
			if p.TotalItems != len(seq) {
				t.Errorf("totalItems = %d, want %d", p.TotalItems, len(seq))
			}
		})
	}
}

func TestPaginateConcatenationEqualsSequence(t *testing.T) {
	items := Promote(sampleItems(t), ptr(int64(5)))
	for size := 1; size <= 7; size++ {
		first := Paginate(items, 1, size)
		var all []int64
		for p := 1; p <= first.TotalPages; p++ {
			all = append(all, ids(Paginate(items, p, size).Items)...)
		}
		if !slices.Equal(all, ids(items)) {
			t.Errorf("size %d: concat = %v, want %v", size, all, ids(items))
		}
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate([]model.MenuItem{}, 1, 10)
	if p.TotalPages != 1 {
		t.Errorf("totalPages = %d, want 1", p.TotalPages)
	}
	if p.Items == nil || len(p.Items) != 0 {
		t.Errorf("items = %v, want empty", p.Items)
	}
}

func TestRandomPick(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	one := []model.MenuItem{{ID: 42}}
	for range 10 {
		id, ok := RandomPick(one, rng)
		if !ok || id != 42 {
			t.Fatalf("pick = %d, %v; want 42, true", id, ok)
		}
	}

	if _, ok := RandomPick(nil, rng); ok {
		t.Error("pick over empty list reported ok")
	}
	if _, ok := RandomPick(nil, nil); ok {
		t.Error("pick over empty list with nil rng reported ok")
	}
}

func TestRandomPickCoversAllItems(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	items := []model.MenuItem{{ID: 1}, {ID: 2}, {ID: 3}}
	seen := map[int64]bool{}
	for range 200 {
		id, _ := RandomPick(items, rng)
		seen[id] = true
	}
	if len(seen) != 3 {
		t.Errorf("picked %v, want all three ids", seen)
	}
}

func TestParseStatusFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    StatusFilter
		wantErr bool
	}{
		{"", StatusAll, false},
		{"all", StatusAll, false},
		{"Active", StatusActive, false},
		{"inactive", StatusInactive, false},
		{"paused", StatusAll, true},
	}
	for _, tt := range tests {
		got, err := ParseStatusFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatusFilter(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStatusFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if StatusAll.String() != "all" {
		t.Errorf("StatusAll.String() = %q", StatusAll.String())
	}
}
