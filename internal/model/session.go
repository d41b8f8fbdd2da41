package model

import "time"

const (
	RoleAdmin      = "admin"
	RoleRestaurant = "restaurant"
)

// Session is a server-side login. SubjectID is the admin id for RoleAdmin and
// the restaurant id for RoleRestaurant.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	Role      string    `json:"role"`
	SubjectID int64     `json:"subject_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Admin struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
