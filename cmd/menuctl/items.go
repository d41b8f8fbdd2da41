package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/dukerupert/menuboard/internal/catalog"
	"github.com/dukerupert/menuboard/internal/client"
	"github.com/dukerupert/menuboard/internal/model"
)

func itemsCommand(args []string, out io.Writer) error {
	cmd := &Command{Name: "items", Description: "List menu items with filters and paging", Usage: "menuctl items [flags]"}
	fs := cmd.NewFlagSet(out)
	api := fs.String("api", "", "menuboard server URL (default $MENUBOARD_API or "+defaultAPI+")")
	restaurant := fs.String("restaurant", "", "only items of this restaurant id")
	query := fs.String("q", "", "item name contains")
	restaurantName := fs.String("restaurant-name", "", "restaurant name contains")
	minPrice := fs.String("min", "", "minimum price")
	maxPrice := fs.String("max", "", "maximum price")
	status := fs.String("status", "all", "all, active or inactive")
	page := fs.Int("page", 1, "page number")
	pageSize := fs.Int("page-size", catalog.DefaultPageSize, "items per page")
	random := fs.Bool("random", false, "pin a random item to the top, ignoring filters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var f catalog.Filter
	var err error
	f.RestaurantID = *restaurant
	f.ItemName = *query
	f.RestaurantName = *restaurantName
	if f.PriceMin, err = parsePriceFlag("min", *minPrice); err != nil {
		return err
	}
	if f.PriceMax, err = parsePriceFlag("max", *maxPrice); err != nil {
		return err
	}
	if f.Status, err = catalog.ParseStatusFilter(*status); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	c := client.New(apiURL(*api))
	items, err := c.ListMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("list menu items: %w", err)
	}
	restaurants, err := c.ListRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("list restaurants: %w", err)
	}

	view, err := project(items, restaurants, f, *random, *page, *pageSize)
	if err != nil {
		return err
	}
	printItems(out, view, catalog.LookupFrom(restaurants))
	return nil
}

// project drives a catalog session the way the dashboard does: filter or
// roll, size the page, then move to the requested page.
func project(items []model.MenuItem, restaurants []model.Restaurant, f catalog.Filter, random bool, page, pageSize int) (catalog.View, error) {
	lookup := catalog.LookupFrom(restaurants)
	s := catalog.NewSession(nil)
	s.SetFilter(f)
	if random {
		if !s.Roll(items) {
			return catalog.View{}, fmt.Errorf("no menu items to pick from")
		}
	}
	s.SetPageSize(pageSize)

	view := s.View(items, lookup)
	if page != s.Page() {
		if !s.GoTo(page, view.TotalPages) {
			return catalog.View{}, fmt.Errorf("page %d out of range (1-%d)", page, view.TotalPages)
		}
		view = s.View(items, lookup)
	}
	return view, nil
}

func parsePriceFlag(name, v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return nil, fmt.Errorf("invalid --%s price %q", name, v)
	}
	return &f, nil
}

func printItems(w io.Writer, view catalog.View, lookup catalog.RestaurantLookup) {
	if view.TotalItems == 0 {
		fmt.Fprintln(w, "No menu items match.")
		return
	}

	table := NewTableWriter([]string{"", "ID", "Name", "Category", "Price", "Restaurant", "Status"})
	for i, item := range view.Items {
		mark := ""
		if view.Pinned && view.Page == 1 && i == 0 {
			mark = "*"
		}
		var restaurant string
		if item.RestaurantID != nil {
			restaurant = lookup(*item.RestaurantID)
		}
		table.AddRow([]string{
			mark,
			strconv.FormatInt(item.ID, 10),
			item.ItemName,
			catalog.EffectiveCategory(item),
			catalog.FormatPrice(item.Price),
			restaurant,
			catalog.EffectiveStatus(item.Status),
		})
	}
	table.Print(w)
	fmt.Fprintf(w, "Page %d of %d (%d items)\n", view.Page, view.TotalPages, view.TotalItems)
}
