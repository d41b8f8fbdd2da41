package category

import (
	"slices"
	"testing"
)

func TestSuggestExactMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hummus", "Appetizers"},
		{"tabbouleh", "Salads"},
		{"lentil", "Soups"},
		{"shawarma", "Sandwiches"},
		{"margherita", "Pizza"},
		{"lasagna", "Pasta"},
		{"kabsa", "Main Courses"},
		{"baklava", "Desserts"},
		{"tea", "Beverages"},
	}
	for _, tt := range tests {
		got := Suggest(tt.input)
		if got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestSubstringMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"chicken shawarma sandwich", "Sandwiches"},
		{"greek salad with feta", "Salads"},
		{"chicken soup", "Soups"},
		{"four cheese pizza", "Pizza"},
		{"chocolate cake", "Desserts"},
		{"coffee cake", "Desserts"},
		{"fresh orange juice", "Beverages"},
		{"iced tea", "Beverages"},
		{"grilled chicken", "Main Courses"},
		{"steak frites", "Main Courses"},
	}
	for _, tt := range tests {
		got := Suggest(tt.input)
		if got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestCaseAndWhitespace(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"HUMMUS", "Appetizers"},
		{"  Tea  ", "Beverages"},
		{"Four Cheese PIZZA", "Pizza"},
	}
	for _, tt := range tests {
		got := Suggest(tt.input)
		if got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestUnknown(t *testing.T) {
	for _, input := range []string{"", "widget", "xyz123"} {
		if got := Suggest(input); got != Other {
			t.Errorf("Suggest(%q) = %q, want %q", input, got, Other)
		}
	}
}

func TestMerge(t *testing.T) {
	got := Merge([]string{"Grill", "desserts", "", "Grill"})

	if got[0] != "Grill" || got[1] != "desserts" {
		t.Errorf("existing categories should lead: %v", got[:2])
	}
	if slices.Contains(got, "Desserts") {
		t.Error("default Desserts should be deduplicated against desserts")
	}
	if !slices.Contains(got, "Appetizers") || !slices.Contains(got, Other) {
		t.Errorf("defaults missing: %v", got)
	}
	if len(got) != 2+len(Defaults)-1 {
		t.Errorf("len = %d, want %d", len(got), 2+len(Defaults)-1)
	}
}

func TestMergeNil(t *testing.T) {
	got := Merge(nil)
	if !slices.Equal(got, Defaults) {
		t.Errorf("Merge(nil) = %v, want %v", got, Defaults)
	}
}
