package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/menuboard/internal/auth"
	"github.com/dukerupert/menuboard/internal/catalog"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/store"
)

type AuthHandler struct {
	restaurantStore *store.RestaurantStore
	adminStore      *store.AdminStore
	sessionStore    *store.SessionStore
	ttl             time.Duration
	logger          *slog.Logger
}

func NewAuthHandler(
	rs *store.RestaurantStore,
	as *store.AdminStore,
	ss *store.SessionStore,
	ttl time.Duration,
	logger *slog.Logger,
) *AuthHandler {
	if ttl <= 0 {
		ttl = auth.DefaultTTL
	}
	return &AuthHandler{
		restaurantStore: rs,
		adminStore:      as,
		sessionStore:    ss,
		ttl:             ttl,
		logger:          logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	// JSON keys match case-insensitively, so the legacy "PASSWORD" key lands here too.
	Password string `json:"password"`
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (loginRequest, bool) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return req, false
	}
	return req, true
}

// startSession stores a new session and sets its cookie.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, role string, subjectID int64) (*model.Session, bool) {
	sess, err := h.sessionStore.Create(role, subjectID, h.ttl)
	if err != nil {
		h.logger.Error("create session", "role", role, "subject_id", subjectID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
		return nil, false
	}
	auth.SetCookie(w, r, sess.Token, h.ttl)
	return sess, true
}

func (h *AuthHandler) RestaurantLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLogin(w, r)
	if !ok {
		return
	}

	restaurant, err := h.restaurantStore.Authenticate(req.Username, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
		return
	}
	if err != nil {
		h.logger.Error("restaurant login", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	if catalog.EffectiveStatus(restaurant.Status) != model.StatusActive {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "restaurant is not active"})
		return
	}

	sess, ok := h.startSession(w, r, model.RoleRestaurant, restaurant.ID)
	if !ok {
		return
	}

	h.logger.Info("restaurant logged in", "restaurant_id", restaurant.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"restaurant": restaurant,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeLogin(w, r)
	if !ok {
		return
	}

	admin, err := h.adminStore.Authenticate(req.Username, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid username or password"})
		return
	}
	if err != nil {
		h.logger.Error("admin login", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}

	sess, ok := h.startSession(w, r, model.RoleAdmin, admin.ID)
	if !ok {
		return
	}

	h.logger.Info("admin logged in", "admin_id", admin.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"admin":      admin,
		"expires_at": sess.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := auth.FromContext(r.Context()); ok {
		if err := h.sessionStore.Delete(sess.SessionID); err != nil {
			h.logger.Error("delete session", "error", err)
		}
	}
	auth.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	Role         string    `json:"role"`
	RestaurantID *int64    `json:"restaurantId,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Session describes the caller's login so a dashboard can pick its mode.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		return
	}

	resp := sessionResponse{Role: sess.Role, ExpiresAt: sess.ExpiresAt}
	if !sess.IsAdmin() {
		id := sess.RestaurantID()
		resp.RestaurantID = &id
	}
	writeJSON(w, http.StatusOK, resp)
}
