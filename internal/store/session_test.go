package store

import (
	"testing"
	"time"

	"github.com/dukerupert/menuboard/internal/database"
	"github.com/dukerupert/menuboard/internal/model"
)

func setupSessionTestDB(t *testing.T) *SessionStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSessionStore(db)
}

func TestSessionCreate(t *testing.T) {
	ss := setupSessionTestDB(t)

	sess, err := ss.Create(model.RoleRestaurant, 7, time.Hour)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 { // 32 bytes hex-encoded
		t.Errorf("token length = %d, want 64", len(sess.Token))
	}
	if sess.Role != model.RoleRestaurant {
		t.Errorf("role = %q, want %q", sess.Role, model.RoleRestaurant)
	}
	if sess.SubjectID != 7 {
		t.Errorf("subject_id = %d, want 7", sess.SubjectID)
	}
	if d := time.Until(sess.ExpiresAt); d < 59*time.Minute || d > time.Hour+time.Second {
		t.Errorf("expires in %v, want about 1h", d)
	}
}

func TestSessionGetByToken(t *testing.T) {
	ss := setupSessionTestDB(t)
	created, _ := ss.Create(model.RoleAdmin, 1, time.Hour)

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.ID != created.ID {
		t.Errorf("id = %d, want %d", sess.ID, created.ID)
	}

	missing, err := ss.GetByToken("nonexistent")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestSessionExpired(t *testing.T) {
	ss := setupSessionTestDB(t)
	created, _ := ss.Create(model.RoleAdmin, 1, time.Hour)

	ss.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	sess, err := ss.GetByToken(created.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if sess != nil {
		t.Error("expected nil for expired session")
	}

	count, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 1 {
		t.Errorf("deleted = %d, want 1", count)
	}
}

func TestSessionDelete(t *testing.T) {
	ss := setupSessionTestDB(t)
	created, _ := ss.Create(model.RoleAdmin, 1, time.Hour)

	if err := ss.Delete(created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sess, _ := ss.GetByToken(created.Token)
	if sess != nil {
		t.Error("expected nil after delete")
	}
}

func TestSessionDeleteBySubject(t *testing.T) {
	ss := setupSessionTestDB(t)
	a, _ := ss.Create(model.RoleRestaurant, 3, time.Hour)
	b, _ := ss.Create(model.RoleRestaurant, 3, time.Hour)
	other, _ := ss.Create(model.RoleAdmin, 3, time.Hour)

	if err := ss.DeleteBySubject(model.RoleRestaurant, 3); err != nil {
		t.Fatalf("delete by subject: %v", err)
	}
	for _, tok := range []string{a.Token, b.Token} {
		if s, _ := ss.GetByToken(tok); s != nil {
			t.Error("expected restaurant session removed")
		}
	}
	if s, _ := ss.GetByToken(other.Token); s == nil {
		t.Error("admin session with the same subject id should survive")
	}
}
