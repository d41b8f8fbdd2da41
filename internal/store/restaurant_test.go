package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/dukerupert/menuboard/internal/model"
)

func TestRestaurantCreateAndGet(t *testing.T) {
	_, rs := setupTestDB(t)

	r, err := rs.Create(model.Restaurant{
		Name:        "Green Leaf",
		Username:    "greenleaf",
		PhoneNumber: "555-0100",
		CreatedBy:   "admin",
	}, "hunter2")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Status != model.StatusActive {
		t.Errorf("status = %q, want active", r.Status)
	}

	byName, err := rs.GetByUsername("greenleaf")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName == nil || byName.ID != r.ID {
		t.Fatalf("get by username = %+v", byName)
	}

	missing, err := rs.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown username")
	}
}

func TestRestaurantDuplicateUsername(t *testing.T) {
	_, rs := setupTestDB(t)
	createRestaurant(t, rs, "dup")

	_, err := rs.Create(model.Restaurant{Name: "Other", Username: "dup"}, "pw")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestRestaurantConcurrentCreateSameUsername(t *testing.T) {
	_, rs := setupTestDB(t)

	const n = 4
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rs.Create(model.Restaurant{Name: "Race", Username: "race"}, "pw")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, taken int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrUsernameTaken):
			taken++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || taken != n-1 {
		t.Errorf("created %d, taken %d; want 1 and %d", ok, taken, n-1)
	}
}

func TestRestaurantAuthenticate(t *testing.T) {
	_, rs := setupTestDB(t)
	created := createRestaurant(t, rs, "login")

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "login", "secret", nil},
		{"wrong password", "login", "nope", ErrInvalidCredentials},
		{"unknown user", "ghost", "secret", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := rs.Authenticate(tt.username, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && r.ID != created.ID {
				t.Errorf("id = %d, want %d", r.ID, created.ID)
			}
		})
	}
}

func TestRestaurantSetPassword(t *testing.T) {
	_, rs := setupTestDB(t)
	r := createRestaurant(t, rs, "rotate")

	if err := rs.SetPassword(r.ID, "fresh"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if _, err := rs.Authenticate("rotate", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := rs.Authenticate("rotate", "fresh"); err != nil {
		t.Errorf("new password: %v", err)
	}
}

func TestRestaurantUpdateAndStatus(t *testing.T) {
	_, rs := setupTestDB(t)
	r := createRestaurant(t, rs, "edit")

	r.Name = "Edited"
	r.Description = "<p>Fresh</p>"
	updated, err := rs.Update(r.ID, *r)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Edited" || updated.Description != "<p>Fresh</p>" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.Username != "edit" {
		t.Errorf("username changed to %q", updated.Username)
	}

	inactive, err := rs.SetStatus(r.ID, model.StatusInactive)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if inactive.Status != model.StatusInactive {
		t.Errorf("status = %q, want inactive", inactive.Status)
	}

	// Inactive restaurants still authenticate; the login handler rejects them.
	if _, err := rs.Authenticate("edit", "secret"); err != nil {
		t.Errorf("authenticate inactive: %v", err)
	}
}

func TestRestaurantSetStatusRejectsUnknown(t *testing.T) {
	_, rs := setupTestDB(t)
	r := createRestaurant(t, rs, "strict")

	if _, err := rs.SetStatus(r.ID, "paused"); err == nil {
		t.Error("expected check constraint error")
	}
}
