package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/menuboard/internal/model"
)

func TestWithSessionAndFromContext(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Session{SessionID: 3, Role: model.RoleRestaurant, SubjectID: 9, ExpiresAt: exp}

	ctx := WithSession(context.Background(), s)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Session in context")
	}
	if got.SessionID != 3 {
		t.Errorf("SessionID = %d, want 3", got.SessionID)
	}
	if got.RestaurantID() != 9 {
		t.Errorf("RestaurantID = %d, want 9", got.RestaurantID())
	}
	if !got.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, exp)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing Session")
	}
	if IsAdmin(context.Background()) {
		t.Error("expected IsAdmin = false for missing context")
	}
	if RestaurantID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
}

func TestAdminHasNoRestaurant(t *testing.T) {
	ctx := WithSession(context.Background(), Session{Role: model.RoleAdmin, SubjectID: 1})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true for admin role")
	}
	if RestaurantID(ctx) != 0 {
		t.Errorf("RestaurantID = %d, want 0 for admin", RestaurantID(ctx))
	}
}

func TestExpired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now}

	if !s.Expired(now) {
		t.Error("session expiring now should be expired")
	}
	if s.Expired(now.Add(-time.Second)) {
		t.Error("session should be valid a second before expiry")
	}
}

func TestFromModel(t *testing.T) {
	m := &model.Session{ID: 5, Role: model.RoleAdmin, SubjectID: 2, ExpiresAt: time.Unix(100, 0)}
	s := FromModel(m)
	if s.SessionID != 5 || s.Role != model.RoleAdmin || s.SubjectID != 2 {
		t.Errorf("session = %+v", s)
	}
}

func TestSetAndClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetCookie(rec, httptest.NewRequest("POST", "/", nil), "tok", time.Hour)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Value != "tok" || c.MaxAge != 3600 || !c.HttpOnly {
		t.Errorf("cookie = %+v", c)
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}

	rec = httptest.NewRecorder()
	ClearCookie(rec)
	if c := rec.Result().Cookies()[0]; c.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", c.MaxAge)
	}
}
