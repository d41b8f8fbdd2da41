package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dukerupert/menuboard/internal/catalog"
	"github.com/dukerupert/menuboard/internal/client"
	"github.com/dukerupert/menuboard/internal/sanitize"
)

func menuCommand(args []string, out io.Writer) error {
	cmd := &Command{Name: "menu", Description: "Print a restaurant's public menu", Usage: "menuctl menu [--api URL] <username>"}
	fs := cmd.NewFlagSet(out)
	api := fs.String("api", "", "menuboard server URL (default $MENUBOARD_API or "+defaultAPI+")")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("restaurant username required")
	}
	username := fs.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	menu, err := client.New(apiURL(*api)).MenuFor(ctx, username)
	switch {
	case client.IsNotFound(err):
		return fmt.Errorf("no restaurant named %q", username)
	case client.IsForbidden(err):
		return fmt.Errorf("restaurant %q is not currently active", username)
	case err != nil:
		return fmt.Errorf("fetch menu: %w", err)
	}

	printMenu(out, menu)
	return nil
}

func printMenu(w io.Writer, menu *catalog.Menu) {
	fmt.Fprintln(w, menu.Restaurant.Name)
	if desc := sanitize.PlainText(menu.Restaurant.Description); desc != "" {
		fmt.Fprintln(w, desc)
	}
	if menu.Restaurant.PhoneNumber != "" {
		fmt.Fprintln(w, menu.Restaurant.PhoneNumber)
	}
	if len(menu.Sections) == 0 {
		fmt.Fprintln(w, "\nNo items on the menu yet.")
		return
	}
	for _, section := range menu.Sections {
		fmt.Fprintf(w, "\n%s\n", section.Category)
		for _, item := range section.Items {
			fmt.Fprintf(w, "  %-40s %10s\n", item.ItemName, catalog.FormatPrice(item.Price))
			if desc := sanitize.PlainText(item.Description); desc != "" {
				fmt.Fprintf(w, "    %s\n", desc)
			}
		}
	}
}
