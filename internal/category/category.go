package category

import "strings"

// Other is the catch-all category.
const Other = "Other"

// Defaults are offered in the item form alongside a restaurant's own categories.
var Defaults = []string{
	"Appetizers",
	"Main Courses",
	"Desserts",
	"Beverages",
	"Salads",
	"Soups",
	"Sandwiches",
	"Pizza",
	"Pasta",
	Other,
}

// Merge returns existing followed by the defaults not already present.
// Comparison ignores case; the first spelling seen wins.
func Merge(existing []string) []string {
	seen := make(map[string]bool, len(existing)+len(Defaults))
	out := make([]string, 0, len(existing)+len(Defaults))
	for _, list := range [][]string{existing, Defaults} {
		for _, c := range list {
			c = strings.TrimSpace(c)
			key := strings.ToLower(c)
			if c == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
	}
	return out
}

// Suggest returns a default category for the given item name.
// Exact match first, then substring match. Falls back to Other.
func Suggest(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return Other
	}

	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	// ordered longer/more-specific first
	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return Other
}

var exactMatch = map[string]string{
	"hummus":       "Appetizers",
	"falafel":      "Appetizers",
	"mutabbal":     "Appetizers",
	"baba ganoush": "Appetizers",
	"kibbeh":       "Appetizers",
	"fries":        "Appetizers",
	"wings":        "Appetizers",
	"nachos":       "Appetizers",

	"tabbouleh": "Salads",
	"fattoush":  "Salads",
	"caesar":    "Salads",

	"lentil":     "Soups",
	"chowder":    "Soups",
	"minestrone": "Soups",

	"shawarma": "Sandwiches",
	"burger":   "Sandwiches",
	"wrap":     "Sandwiches",
	"panini":   "Sandwiches",

	"margherita": "Pizza",
	"pepperoni":  "Pizza",
	"manakish":   "Pizza",

	"lasagna":   "Pasta",
	"spaghetti": "Pasta",
	"penne":     "Pasta",
	"ravioli":   "Pasta",

	"kabsa":   "Main Courses",
	"mansaf":  "Main Courses",
	"steak":   "Main Courses",
	"grill":   "Main Courses",
	"biryani": "Main Courses",

	"baklava":  "Desserts",
	"kunafa":   "Desserts",
	"knafeh":   "Desserts",
	"tiramisu": "Desserts",
	"brownie":  "Desserts",

	"tea":      "Beverages",
	"coffee":   "Beverages",
	"espresso": "Beverages",
	"latte":    "Beverages",
	"water":    "Beverages",
	"cola":     "Beverages",
	"ayran":    "Beverages",
}

type substringEntry struct {
	keyword  string
	category string
}

var substringMatches = []substringEntry{
	{"ice cream", "Desserts"},
	{"cheesecake", "Desserts"},
	{"cake", "Desserts"},
	{"pudding", "Desserts"},
	{"cookie", "Desserts"},
	{"waffle", "Desserts"},
	{"crepe", "Desserts"},

	{"orange juice", "Beverages"},
	{"lemonade", "Beverages"},
	{"smoothie", "Beverages"},
	{"milkshake", "Beverages"},
	{"juice", "Beverages"},
	{"soda", "Beverages"},
	{"coffee", "Beverages"},
	{" tea", "Beverages"},
	{"drink", "Beverages"},

	{"salad", "Salads"},
	{"soup", "Soups"},

	{"sandwich", "Sandwiches"},
	{"burger", "Sandwiches"},
	{"shawarma", "Sandwiches"},
	{"wrap", "Sandwiches"},

	{"pizza", "Pizza"},
	{"calzone", "Pizza"},

	{"spaghetti", "Pasta"},
	{"fettuccine", "Pasta"},
	{"macaroni", "Pasta"},
	{"pasta", "Pasta"},
	{"penne", "Pasta"},

	{"mixed grill", "Main Courses"},
	{"kebab", "Main Courses"},
	{"steak", "Main Courses"},
	{"chicken", "Main Courses"},
	{"rice", "Main Courses"},
	{"fish", "Main Courses"},

	{"spring roll", "Appetizers"},
	{"fries", "Appetizers"},
	{"dip", "Appetizers"},
	{"wings", "Appetizers"},
}
