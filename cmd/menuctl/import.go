package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dukerupert/menuboard/internal/config"
	"github.com/dukerupert/menuboard/internal/database"
	"github.com/dukerupert/menuboard/internal/importer"
	"github.com/dukerupert/menuboard/internal/store"
)

// importActor is recorded as created_by on imported rows.
const importActor = "menuctl"

func importCommand(args []string, out io.Writer) error {
	cmd := &Command{Name: "import", Description: "Import menu items from a spreadsheet into the database", Usage: "menuctl import --restaurant ID [--db path] [--sheet name] <file.xlsx>"}
	fs := cmd.NewFlagSet(out)
	dbPath := fs.String("db", "", "database path (default $MENUBOARD_DB_PATH or "+config.Default().DBPath+")")
	sheet := fs.String("sheet", "", "worksheet name (default first sheet)")
	restaurantID := fs.Int64("restaurant", 0, "restaurant id that owns the imported items")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("spreadsheet path required")
	}
	if *restaurantID <= 0 {
		return fmt.Errorf("--restaurant is required")
	}

	path := *dbPath
	if path == "" {
		path = os.Getenv("MENUBOARD_DB_PATH")
	}
	if path == "" {
		path = config.Default().DBPath
	}

	db, err := database.Open(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := importFile(store.NewMenuItemStore(db), store.NewRestaurantStore(db), *restaurantID, fs.Arg(0), *sheet)
	var rowErrs importer.RowErrors
	if errors.As(err, &rowErrs) {
		for _, re := range rowErrs {
			fmt.Fprintf(out, "  %s\n", re.Error())
		}
		return fmt.Errorf("%d rows rejected, nothing imported", len(rowErrs))
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d menu items.\n", n)
	return nil
}

// importFile reads every row of the sheet and inserts them in one
// transaction. Nothing is written when any row is rejected.
func importFile(items *store.MenuItemStore, restaurants *store.RestaurantStore, restaurantID int64, path, sheet string) (int, error) {
	r, err := restaurants.GetByID(restaurantID)
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, fmt.Errorf("restaurant %d not found", restaurantID)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := importer.ReadMenuItems(f, sheet)
	if err != nil {
		return 0, err
	}
	for i := range rows {
		rows[i].RestaurantID = &restaurantID
		rows[i].CreatedBy = importActor
	}

	n, err := items.CreateBatch(rows)
	if err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	return n, nil
}
