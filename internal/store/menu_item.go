package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/menuboard/internal/model"
)

type MenuItemStore struct {
	db *sql.DB
}

func NewMenuItemStore(db *sql.DB) *MenuItemStore {
	return &MenuItemStore{db: db}
}

func scanMenuItem(scanner rowScanner) (*model.MenuItem, error) {
	var m model.MenuItem
	var restaurantID sql.NullInt64
	var price float64

	err := scanner.Scan(
		&m.ID, &restaurantID, &m.ItemName, &price, &m.Category, &m.Description,
		&m.Photo, &m.Status, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Price = model.Price(price)
	if restaurantID.Valid {
		m.RestaurantID = &restaurantID.Int64
	}
	return &m, nil
}

const menuItemCols = `id, restaurant_id, item_name, price, category, description, photo, status, created_by, updated_by, created_at, updated_at`

func nullID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func (s *MenuItemStore) queryItems(query string, args ...any) ([]model.MenuItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := []model.MenuItem{}
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// List returns every menu item in insertion order.
func (s *MenuItemStore) List() ([]model.MenuItem, error) {
	return s.queryItems(`SELECT ` + menuItemCols + ` FROM menu_items ORDER BY id`)
}

func (s *MenuItemStore) ListByRestaurant(restaurantID int64) ([]model.MenuItem, error) {
	return s.queryItems(`SELECT `+menuItemCols+` FROM menu_items WHERE restaurant_id = ? ORDER BY id`, restaurantID)
}

func (s *MenuItemStore) GetByID(id int64) (*model.MenuItem, error) {
	row := s.db.QueryRow(`SELECT `+menuItemCols+` FROM menu_items WHERE id = ?`, id)
	m, err := scanMenuItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

// Create inserts m and returns the stored row. ID and timestamps on m are ignored.
func (s *MenuItemStore) Create(m model.MenuItem) (*model.MenuItem, error) {
	status := m.Status
	if status == "" {
		status = model.StatusActive
	}
	result, err := s.db.Exec(
		`INSERT INTO menu_items (restaurant_id, item_name, price, category, description, photo, status, created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(m.RestaurantID), m.ItemName, m.Price.Float(), m.Category, m.Description,
		m.Photo, status, m.CreatedBy, m.CreatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert menu item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Update overwrites the editable fields of item id. It returns nil when the
// item does not exist.
func (s *MenuItemStore) Update(id int64, m model.MenuItem) (*model.MenuItem, error) {
	status := m.Status
	if status == "" {
		status = model.StatusActive
	}
	_, err := s.db.Exec(
		`UPDATE menu_items SET restaurant_id = ?, item_name = ?, price = ?, category = ?, description = ?,
		 photo = ?, status = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullID(m.RestaurantID), m.ItemName, m.Price.Float(), m.Category, m.Description,
		m.Photo, status, m.UpdatedBy, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	return s.GetByID(id)
}

func (s *MenuItemStore) SetStatus(id int64, status, updatedBy string) (*model.MenuItem, error) {
	_, err := s.db.Exec(
		`UPDATE menu_items SET status = ?, updated_by = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, updatedBy, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set menu item status: %w", err)
	}
	return s.GetByID(id)
}

func (s *MenuItemStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM menu_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	return nil
}

// ListCategories returns the distinct non-empty categories a restaurant
// already uses, sorted.
func (s *MenuItemStore) ListCategories(restaurantID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT category FROM menu_items
		 WHERE restaurant_id = ? AND category != ''
		 ORDER BY category`,
		restaurantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateBatch inserts items in one transaction. Either all rows land or none do.
func (s *MenuItemStore) CreateBatch(items []model.MenuItem) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO menu_items (restaurant_id, item_name, price, category, description, photo, status, created_by, updated_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range items {
		status := m.Status
		if status == "" {
			status = model.StatusActive
		}
		if _, err := stmt.Exec(
			nullID(m.RestaurantID), m.ItemName, m.Price.Float(), m.Category, m.Description,
			m.Photo, status, m.CreatedBy, m.CreatedBy,
		); err != nil {
			return 0, fmt.Errorf("insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(items), nil
}
