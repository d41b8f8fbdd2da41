package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/menuboard/internal/model"
)

type AdminStore struct {
	db *sql.DB
}

func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminCols = `id, username, created_at`

func (s *AdminStore) GetByUsername(username string) (*model.Admin, error) {
	var a model.Admin
	err := s.db.QueryRow(`SELECT `+adminCols+` FROM admins WHERE username = ?`, username).
		Scan(&a.ID, &a.Username, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

func (s *AdminStore) Create(username, password string) (*model.Admin, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO admins (username, password_hash) VALUES (?, ?)`, username, hash)
	if isUniqueViolation(err) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}
	return s.GetByUsername(username)
}

// EnsureSeed creates the admin account if it does not exist yet. An existing
// account keeps its password. It reports whether an account was created.
func (s *AdminStore) EnsureSeed(username, password string) (bool, error) {
	existing, err := s.GetByUsername(username)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.Create(username, password); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AdminStore) Authenticate(username, password string) (*model.Admin, error) {
	var id int64
	var hash string
	err := s.db.QueryRow(`SELECT id, password_hash FROM admins WHERE username = ?`, username).Scan(&id, &hash)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup admin: %w", err)
	}
	if !checkPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.GetByUsername(username)
}
