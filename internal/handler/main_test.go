package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/menuboard/internal/auth"
	"github.com/dukerupert/menuboard/internal/database"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/websocket"
)

func TestMain(m *testing.M) {
	store.HashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testEnv struct {
	items       *store.MenuItemStore
	restaurants *store.RestaurantStore
	admins      *store.AdminStore
	sessions    *store.SessionStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		items:       store.NewMenuItemStore(db),
		restaurants: store.NewRestaurantStore(db),
		admins:      store.NewAdminStore(db),
		sessions:    store.NewSessionStore(db),
		hub:         websocket.NewHub(logger),
		logger:      logger,
	}
}

func (e *testEnv) restaurant(t *testing.T, username, status string) *model.Restaurant {
	t.Helper()
	r, err := e.restaurants.Create(model.Restaurant{
		Name:     "Restaurant " + username,
		Username: username,
		Status:   status,
	}, "secret123")
	if err != nil {
		t.Fatalf("create restaurant: %v", err)
	}
	return r
}

func (e *testEnv) item(t *testing.T, restaurantID int64, name, cat string, price float64) *model.MenuItem {
	t.Helper()
	m, err := e.items.Create(model.MenuItem{
		ItemName:     name,
		Price:        model.Price(price),
		Category:     cat,
		RestaurantID: &restaurantID,
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	return m
}

func adminSession() auth.Session {
	return auth.Session{SessionID: 1, Role: model.RoleAdmin, SubjectID: 1, ExpiresAt: time.Now().Add(time.Hour)}
}

func restaurantSession(id int64) auth.Session {
	return auth.Session{SessionID: 2, Role: model.RoleRestaurant, SubjectID: id, ExpiresAt: time.Now().Add(time.Hour)}
}

// newRequest builds a request with an optional JSON body, session and path values
// given as name/value pairs.
func newRequest(t *testing.T, method, target string, body any, sess *auth.Session, pathValues ...string) *http.Request {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rdr = bytes.NewBufferString(s)
		} else {
			b, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			rdr = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if sess != nil {
		req = withSession(req, *sess)
	}
	return req
}

func withSession(r *http.Request, s auth.Session) *http.Request {
	return r.WithContext(auth.WithSession(r.Context(), s))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func ptr[T any](v T) *T { return &v }
