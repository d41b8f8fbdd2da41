package auth

import (
	"context"
	"time"

	"github.com/dukerupert/menuboard/internal/model"
)

type contextKey struct{}

// Session is the login state of one request. It is the only place handlers
// read who the caller is.
type Session struct {
	SessionID int64
	Role      string
	// SubjectID is the admin id for admins and the restaurant id for restaurants.
	SubjectID int64
	ExpiresAt time.Time
}

// FromModel converts a stored session row.
func FromModel(s *model.Session) Session {
	return Session{
		SessionID: s.ID,
		Role:      s.Role,
		SubjectID: s.SubjectID,
		ExpiresAt: s.ExpiresAt,
	}
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s Session) IsAdmin() bool { return s.Role == model.RoleAdmin }

// RestaurantID returns the restaurant a restaurant session belongs to, and
// 0 for admins.
func (s Session) RestaurantID() int64 {
	if s.Role != model.RoleRestaurant {
		return 0
	}
	return s.SubjectID
}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

func IsAdmin(ctx context.Context) bool {
	s, ok := FromContext(ctx)
	if !ok {
		return false
	}
	return s.IsAdmin()
}

func RestaurantID(ctx context.Context) int64 {
	s, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return s.RestaurantID()
}
