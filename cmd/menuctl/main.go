package main

import (
	"fmt"
	"os"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// defaultAPI is used when neither --api nor MENUBOARD_API is set.
const defaultAPI = "http://localhost:8080"

func main() {
	registry := NewCommandRegistry(VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	registerCommands(registry)

	if err := registry.Execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func registerCommands(r *CommandRegistry) {
	r.Register(&Command{
		Name:        "menu",
		Description: "Print a restaurant's public menu",
		Usage:       "menuctl menu [--api URL] <username>",
		Examples: []string{
			"menuctl menu babsharqi",
			"menuctl menu --api https://menu.example.com babsharqi",
		},
		Run: menuCommand,
	})

	r.Register(&Command{
		Name:        "items",
		Description: "List menu items with filters and paging",
		Usage:       "menuctl items [flags]",
		Examples: []string{
			"menuctl items --restaurant 3 --status active",
			"menuctl items --q kebab --max 12.5 --page 2",
			"menuctl items --random",
		},
		Run: itemsCommand,
	})

	r.Register(&Command{
		Name:        "import",
		Description: "Import menu items from a spreadsheet into the database",
		Usage:       "menuctl import --restaurant ID [--db path] [--sheet name] <file.xlsx>",
		Examples: []string{
			"menuctl import --restaurant 3 menu.xlsx",
			"menuctl import --db /var/lib/menuboard/menuboard.db --restaurant 3 --sheet Drinks menu.xlsx",
		},
		Run: importCommand,
	})
}

// apiURL resolves the server address from a flag value, the environment, or
// the default.
func apiURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("MENUBOARD_API"); v != "" {
		return v
	}
	return defaultAPI
}
