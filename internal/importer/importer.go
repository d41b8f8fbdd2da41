// Package importer reads menu items from spreadsheets.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dukerupert/menuboard/internal/category"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/sanitize"
)

// ErrNoNameColumn is returned when the header row has no item name column.
var ErrNoNameColumn = errors.New("header row has no name or item_name column")

// RowError describes one rejected data row. Row is the 1-based spreadsheet
// row number.
type RowError struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// RowErrors collects every rejected row of a sheet.
type RowErrors []RowError

func (e RowErrors) Error() string {
	msgs := make([]string, len(e))
	for i, re := range e {
		msgs[i] = re.Error()
	}
	return strings.Join(msgs, "; ")
}

type columns struct {
	name, price, category, description, photo, status int
}

func headerIndex(headers []string, candidates ...string) int {
	for i, h := range headers {
		hl := strings.ToLower(strings.TrimSpace(h))
		for _, c := range candidates {
			if hl == c {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ReadMenuItems parses an xlsx workbook. sheet selects the worksheet; empty
// means the first one. Blank rows are skipped, and a blank category is
// guessed from the item name. If any row is invalid the result is nil and
// the error is a RowErrors listing all of them.
func ReadMenuItems(r io.Reader, sheet string) ([]model.MenuItem, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return []model.MenuItem{}, nil
	}

	header := rows[0]
	cols := columns{
		name:        headerIndex(header, "item_name", "name", "item"),
		price:       headerIndex(header, "price"),
		category:    headerIndex(header, "category"),
		description: headerIndex(header, "description"),
		photo:       headerIndex(header, "photo", "image", "photo_url"),
		status:      headerIndex(header, "status"),
	}
	if cols.name < 0 {
		return nil, ErrNoNameColumn
	}

	items := []model.MenuItem{}
	var rowErrs RowErrors
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blank(row) {
			continue
		}

		item, err := parseRow(row, cols, rowNum)
		if err != nil {
			rowErrs = append(rowErrs, *err)
			continue
		}
		items = append(items, item)
	}

	if len(rowErrs) > 0 {
		return nil, rowErrs
	}
	return items, nil
}

func parseRow(row []string, cols columns, rowNum int) (model.MenuItem, *RowError) {
	name := cell(row, cols.name)
	if name == "" {
		return model.MenuItem{}, &RowError{Row: rowNum, Field: "item_name", Reason: "must not be empty"}
	}

	price := model.ParsePrice(cell(row, cols.price))
	if !price.Valid() {
		return model.MenuItem{}, &RowError{Row: rowNum, Field: "price", Reason: fmt.Sprintf("%q is not a number", cell(row, cols.price))}
	}
	if price < 0 {
		return model.MenuItem{}, &RowError{Row: rowNum, Field: "price", Reason: "must not be negative"}
	}

	status := strings.ToLower(cell(row, cols.status))
	if !model.ValidStatus(status) {
		return model.MenuItem{}, &RowError{Row: rowNum, Field: "status", Reason: fmt.Sprintf("unknown value %q", status)}
	}

	cat := cell(row, cols.category)
	if cat == "" {
		cat = category.Suggest(name)
	}

	return model.MenuItem{
		ItemName:    name,
		Price:       price,
		Category:    cat,
		Description: sanitize.Description(cell(row, cols.description)),
		Photo:       cell(row, cols.photo),
		Status:      status,
	}, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
