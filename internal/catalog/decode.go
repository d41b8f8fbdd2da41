package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dukerupert/menuboard/internal/model"
)

// ErrShape matches every *ShapeError via errors.Is.
var ErrShape = errors.New("catalog: malformed record")

// ShapeError reports the first element of a payload that does not have the
// expected shape. Index is -1 for a single record.
type ShapeError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("catalog: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("catalog: element %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// ValidateMenuItem checks one item. index is only used in the error.
func ValidateMenuItem(index int, m model.MenuItem) error {
	switch {
	case m.ID <= 0:
		return &ShapeError{Index: index, Field: "id", Reason: "must be a positive integer"}
	case strings.TrimSpace(m.ItemName) == "":
		return &ShapeError{Index: index, Field: "item_name", Reason: "must not be empty"}
	case !model.ValidStatus(m.Status):
		return &ShapeError{Index: index, Field: "status", Reason: fmt.Sprintf("unknown value %q", m.Status)}
	}
	return nil
}

// ValidateRestaurant checks one restaurant. index is only used in the error.
func ValidateRestaurant(index int, r model.Restaurant) error {
	switch {
	case r.ID <= 0:
		return &ShapeError{Index: index, Field: "id", Reason: "must be a positive integer"}
	case strings.TrimSpace(r.Name) == "":
		return &ShapeError{Index: index, Field: "name", Reason: "must not be empty"}
	case strings.TrimSpace(r.Username) == "":
		return &ShapeError{Index: index, Field: "username", Reason: "must not be empty"}
	case !model.ValidStatus(r.Status):
		return &ShapeError{Index: index, Field: "status", Reason: fmt.Sprintf("unknown value %q", r.Status)}
	}
	return nil
}

// ValidateMenuItems stops at the first malformed item.
func ValidateMenuItems(items []model.MenuItem) error {
	for i, m := range items {
		if err := ValidateMenuItem(i, m); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRestaurants stops at the first malformed restaurant.
func ValidateRestaurants(restaurants []model.Restaurant) error {
	for i, r := range restaurants {
		if err := ValidateRestaurant(i, r); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMenuItems reads a JSON array of menu items and validates every
// element. A JSON null decodes to an empty list.
func DecodeMenuItems(r io.Reader) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	if err := ValidateMenuItems(items); err != nil {
		return nil, err
	}
	return items, nil
}

// DecodeRestaurants reads a JSON array of restaurants and validates every element.
func DecodeRestaurants(r io.Reader) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := json.NewDecoder(r).Decode(&restaurants); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	if restaurants == nil {
		restaurants = []model.Restaurant{}
	}
	if err := ValidateRestaurants(restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// DecodeRestaurant reads and validates a single restaurant object.
func DecodeRestaurant(r io.Reader) (*model.Restaurant, error) {
	var rest model.Restaurant
	if err := json.NewDecoder(r).Decode(&rest); err != nil {
		return nil, fmt.Errorf("decode restaurant: %w", err)
	}
	if err := ValidateRestaurant(-1, rest); err != nil {
		return nil, err
	}
	return &rest, nil
}
