package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/menuboard/internal/auth"
	"github.com/dukerupert/menuboard/internal/catalog"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/notify"
	"github.com/dukerupert/menuboard/internal/sanitize"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/websocket"
)

const minPasswordLength = 6

// notifyTimeout bounds one admin notification sent after a request.
const notifyTimeout = 10 * time.Second

// Usernames appear in customer menu URLs.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

type RestaurantHandler struct {
	restaurantStore *store.RestaurantStore
	itemStore       *store.MenuItemStore
	sessionStore    *store.SessionStore
	photos          PhotoStore
	notifier        notify.Notifier
	hub             *websocket.Hub
	logger          *slog.Logger

	pending sync.WaitGroup
}

func NewRestaurantHandler(
	rs *store.RestaurantStore,
	is *store.MenuItemStore,
	ss *store.SessionStore,
	photos PhotoStore,
	n notify.Notifier,
	hub *websocket.Hub,
	logger *slog.Logger,
) *RestaurantHandler {
	if n == nil {
		n = notify.Nop{}
	}
	return &RestaurantHandler{
		restaurantStore: rs,
		itemStore:       is,
		sessionStore:    ss,
		photos:          photos,
		notifier:        n,
		hub:             hub,
		logger:          logger,
	}
}

type restaurantRequest struct {
	Name        string `json:"name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Description string `json:"description"`
	PhoneNumber string `json:"phone_number"`
	Logo        string `json:"logo"`
	Rating      string `json:"rating"`
	Status      string `json:"status"`
}

func (req *restaurantRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Logo = strings.TrimSpace(req.Logo)
	req.Rating = strings.TrimSpace(req.Rating)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
}

func (req *restaurantRequest) toModel() model.Restaurant {
	return model.Restaurant{
		Name:        req.Name,
		Username:    req.Username,
		Description: sanitize.Description(req.Description),
		PhoneNumber: req.PhoneNumber,
		Logo:        req.Logo,
		Rating:      req.Rating,
		Status:      req.Status,
	}
}

func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.restaurantStore.List()
	if err != nil {
		h.logger.Error("list restaurants", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list restaurants"})
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *RestaurantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	restaurant, err := h.restaurantStore.GetByID(id)
	if err != nil {
		h.logger.Error("get restaurant", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get restaurant"})
		return
	}
	if restaurant == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "restaurant not found"})
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

// View is the restaurant-management table: name search, status filter and
// pagination.
func (h *RestaurantHandler) View(w http.ResponseWriter, r *http.Request) {
	status, err := catalog.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	pageSize, err := queryInt(r, "pageSize", catalog.DefaultPageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	restaurants, err := h.restaurantStore.List()
	if err != nil {
		h.logger.Error("list restaurants", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list restaurants"})
		return
	}

	filtered := catalog.FilterRestaurants(restaurants, r.URL.Query().Get("q"), status)
	writeJSON(w, http.StatusOK, catalog.Paginate(filtered, page, pageSize))
}

// Menu serves the customer-facing menu of the restaurant with the given
// username.
func (h *RestaurantHandler) Menu(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PathValue("username"))

	restaurant, err := h.restaurantStore.GetByUsername(username)
	if err != nil {
		h.logger.Error("get restaurant by username", "username", username, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get restaurant"})
		return
	}
	if restaurant == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "restaurant not found"})
		return
	}
	if catalog.EffectiveStatus(restaurant.Status) != model.StatusActive {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "restaurant is not active"})
		return
	}

	items, err := h.itemStore.ListByRestaurant(restaurant.ID)
	if err != nil {
		h.logger.Error("list menu items by restaurant", "restaurant_id", restaurant.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list menu items"})
		return
	}

	writeJSON(w, http.StatusOK, catalog.BuildMenu(*restaurant, items))
}

func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.normalize()

	switch {
	case req.Name == "":
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	case req.Username == "":
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username is required"})
		return
	case !usernamePattern.MatchString(req.Username):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username may only contain letters, digits, '.', '_' and '-'"})
		return
	case len(req.Password) < minPasswordLength:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 6 characters"})
		return
	case !model.ValidStatus(req.Status):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be active or inactive"})
		return
	}

	m := req.toModel()
	m.CreatedBy = actor(sess)

	restaurant, err := h.restaurantStore.Create(m, req.Password)
	if errors.Is(err, store.ErrUsernameTaken) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "username already taken"})
		return
	}
	if err != nil {
		h.logger.Error("create restaurant", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create restaurant"})
		return
	}

	created := *restaurant
	h.notifyLater(func(ctx context.Context) { h.notifier.RestaurantCreated(ctx, created) })
	broadcast(h.hub, websocket.NewMessage(websocket.EntityRestaurant, websocket.ActionCreated, restaurant.ID, &restaurant.ID))

	writeJSON(w, http.StatusCreated, restaurant)
}

// Update edits a restaurant profile. Admins may edit any restaurant; a
// restaurant only itself. A non-empty password is changed too.
func (h *RestaurantHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	if !sess.IsAdmin() && sess.RestaurantID() != id {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "cannot edit another restaurant"})
		return
	}

	existing, err := h.restaurantStore.GetByID(id)
	if err != nil {
		h.logger.Error("get restaurant", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get restaurant"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "restaurant not found"})
		return
	}

	var req restaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.normalize()

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Password != "" && len(req.Password) < minPasswordLength {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password must be at least 6 characters"})
		return
	}
	if req.Status != "" && req.Status != catalog.EffectiveStatus(existing.Status) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "status changes go through the status endpoint"})
		return
	}

	restaurant, err := h.restaurantStore.Update(id, req.toModel())
	if err != nil {
		h.logger.Error("update restaurant", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update restaurant"})
		return
	}
	if req.Password != "" {
		if err := h.restaurantStore.SetPassword(id, req.Password); err != nil {
			h.logger.Error("set restaurant password", "id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update password"})
			return
		}
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityRestaurant, websocket.ActionUpdated, id, &id))

	writeJSON(w, http.StatusOK, restaurant)
}

// SetStatus activates or deactivates a restaurant. Deactivation ends the
// restaurant's open sessions.
func (h *RestaurantHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	restaurant, err := h.restaurantStore.SetStatus(id, req.Status)
	if err != nil {
		h.logger.Error("set restaurant status", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update restaurant status"})
		return
	}
	if restaurant == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "restaurant not found"})
		return
	}

	if req.Status == model.StatusInactive {
		if err := h.sessionStore.DeleteBySubject(model.RoleRestaurant, id); err != nil {
			h.logger.Error("end restaurant sessions", "id", id, "error", err)
		}
	}

	changed := *restaurant
	h.notifyLater(func(ctx context.Context) { h.notifier.RestaurantStatusChanged(ctx, changed) })
	broadcast(h.hub, websocket.NewMessage(websocket.EntityRestaurant, websocket.ActionStatus, id, &id))

	writeJSON(w, http.StatusOK, restaurant)
}

// Delete removes a restaurant together with its menu and sessions.
func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.restaurantStore.GetByID(id)
	if err != nil {
		h.logger.Error("get restaurant", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get restaurant"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "restaurant not found"})
		return
	}

	// Items go with the restaurant; their photos need removing separately.
	items, err := h.itemStore.ListByRestaurant(id)
	if err != nil {
		h.logger.Error("list restaurant items", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete restaurant"})
		return
	}

	if err := h.restaurantStore.Delete(id); err != nil {
		h.logger.Error("delete restaurant", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete restaurant"})
		return
	}
	if err := h.sessionStore.DeleteBySubject(model.RoleRestaurant, id); err != nil {
		h.logger.Error("end restaurant sessions", "id", id, "error", err)
	}

	for _, item := range items {
		removePhoto(r.Context(), h.photos, item.Photo, h.logger)
	}
	removePhoto(r.Context(), h.photos, existing.Logo, h.logger)

	broadcast(h.hub, websocket.NewMessage(websocket.EntityRestaurant, websocket.ActionDeleted, id, &id))

	w.WriteHeader(http.StatusNoContent)
}

// notifyLater sends a notification off the request path.
func (h *RestaurantHandler) notifyLater(send func(ctx context.Context)) {
	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		send(ctx)
	}()
}

// Wait blocks until every queued notification has been sent or given up.
func (h *RestaurantHandler) Wait() {
	h.pending.Wait()
}
