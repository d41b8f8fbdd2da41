package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/menuboard/internal/model"
)

type RestaurantStore struct {
	db *sql.DB
}

func NewRestaurantStore(db *sql.DB) *RestaurantStore {
	return &RestaurantStore{db: db}
}

func scanRestaurant(scanner rowScanner) (*model.Restaurant, error) {
	var r model.Restaurant
	err := scanner.Scan(
		&r.ID, &r.Name, &r.Username, &r.Description, &r.PhoneNumber, &r.Logo,
		&r.Rating, &r.Status, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

const restaurantCols = `id, name, username, description, phone_number, logo, rating, status, created_by, created_at, updated_at`

func (s *RestaurantStore) List() ([]model.Restaurant, error) {
	rows, err := s.db.Query(`SELECT ` + restaurantCols + ` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []model.Restaurant{}
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, *r)
	}
	return restaurants, rows.Err()
}

func (s *RestaurantStore) GetByID(id int64) (*model.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantCols+` FROM restaurants WHERE id = ?`, id)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

func (s *RestaurantStore) GetByUsername(username string) (*model.Restaurant, error) {
	row := s.db.QueryRow(`SELECT `+restaurantCols+` FROM restaurants WHERE username = ?`, username)
	r, err := scanRestaurant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant by username: %w", err)
	}
	return r, nil
}

func (s *RestaurantStore) UsernameExists(username string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM restaurants WHERE username = ?`, username).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return n > 0, nil
}

// Create stores r with a bcrypt hash of password. It returns ErrUsernameTaken
// when the username is already registered.
func (s *RestaurantStore) Create(r model.Restaurant, password string) (*model.Restaurant, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	status := r.Status
	if status == "" {
		status = model.StatusActive
	}

	result, err := s.db.Exec(
		`INSERT INTO restaurants (name, username, password_hash, description, phone_number, logo, rating, status, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Name, r.Username, hash, r.Description, r.PhoneNumber, r.Logo, r.Rating, status, r.CreatedBy,
	)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert restaurant: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Update overwrites the profile fields. Username, password and status have
// their own methods.
func (s *RestaurantStore) Update(id int64, r model.Restaurant) (*model.Restaurant, error) {
	_, err := s.db.Exec(
		`UPDATE restaurants SET name = ?, description = ?, phone_number = ?, logo = ?, rating = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		r.Name, r.Description, r.PhoneNumber, r.Logo, r.Rating, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	return s.GetByID(id)
}

func (s *RestaurantStore) SetPassword(id int64, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE restaurants SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		hash, id,
	)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	return nil
}

func (s *RestaurantStore) SetStatus(id int64, status string) (*model.Restaurant, error) {
	_, err := s.db.Exec(
		`UPDATE restaurants SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set restaurant status: %w", err)
	}
	return s.GetByID(id)
}

func (s *RestaurantStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM restaurants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	return nil
}

// Authenticate checks username and password. An inactive restaurant still
// authenticates; callers decide whether it may log in.
func (s *RestaurantStore) Authenticate(username, password string) (*model.Restaurant, error) {
	var id int64
	var hash string
	err := s.db.QueryRow(`SELECT id, password_hash FROM restaurants WHERE username = ?`, username).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup restaurant: %w", err)
	}
	if !checkPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.GetByID(id)
}
