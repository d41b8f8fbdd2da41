package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/menuboard/internal/auth"
	"github.com/dukerupert/menuboard/internal/catalog"
	"github.com/dukerupert/menuboard/internal/category"
	"github.com/dukerupert/menuboard/internal/importer"
	"github.com/dukerupert/menuboard/internal/model"
	"github.com/dukerupert/menuboard/internal/sanitize"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/upload"
	"github.com/dukerupert/menuboard/internal/websocket"
)

const maxImportSize = 10 << 20

type MenuItemHandler struct {
	itemStore       *store.MenuItemStore
	restaurantStore *store.RestaurantStore
	uploader        *upload.Uploader
	hub             *websocket.Hub
	logger          *slog.Logger
}

func NewMenuItemHandler(is *store.MenuItemStore, rs *store.RestaurantStore, u *upload.Uploader, hub *websocket.Hub, logger *slog.Logger) *MenuItemHandler {
	return &MenuItemHandler{itemStore: is, restaurantStore: rs, uploader: u, hub: hub, logger: logger}
}

type menuItemRequest struct {
	ItemName     string       `json:"item_name"`
	Price        *model.Price `json:"price"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
	Photo        string       `json:"photo"`
	RestaurantID *int64       `json:"restaurantId"`
	Status       string       `json:"status"`
}

// validate trims the request in place and returns a client-facing message
// for the first problem found.
func (req *menuItemRequest) validate() string {
	req.ItemName = strings.TrimSpace(req.ItemName)
	req.Category = strings.TrimSpace(req.Category)
	req.Photo = strings.TrimSpace(req.Photo)
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))

	switch {
	case req.ItemName == "":
		return "item_name is required"
	case req.Price == nil:
		return "price is required"
	case !req.Price.Valid():
		return "price must be a number"
	case *req.Price < 0:
		return "price must not be negative"
	case req.Category == "":
		return "category is required"
	case !model.ValidStatus(req.Status):
		return "status must be active or inactive"
	}
	return ""
}

func (req *menuItemRequest) toModel() model.MenuItem {
	return model.MenuItem{
		ItemName:    req.ItemName,
		Price:       *req.Price,
		Category:    req.Category,
		Description: sanitize.Description(req.Description),
		Photo:       req.Photo,
		Status:      req.Status,
	}
}

// ownsItem reports whether the session may modify item.
func ownsItem(s auth.Session, item *model.MenuItem) bool {
	if s.IsAdmin() {
		return true
	}
	return item.RestaurantID != nil && *item.RestaurantID == s.RestaurantID()
}

// restaurantFor picks the restaurant an item is written under. A restaurant
// session always writes under itself. An admin must name an existing
// restaurant unless fallback is set. On failure the response is written and
// ok is false.
func (h *MenuItemHandler) restaurantFor(w http.ResponseWriter, s auth.Session, requested, fallback *int64) (id *int64, ok bool) {
	if !s.IsAdmin() {
		rid := s.RestaurantID()
		return &rid, true
	}

	if requested == nil {
		if fallback != nil {
			return fallback, true
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "restaurantId is required"})
		return nil, false
	}

	restaurant, err := h.restaurantStore.GetByID(*requested)
	if err != nil {
		h.logger.Error("lookup restaurant", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get restaurant"})
		return nil, false
	}
	if restaurant == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "restaurant not found"})
		return nil, false
	}
	return requested, true
}

func (h *MenuItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemStore.List()
	if err != nil {
		h.logger.Error("list menu items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list menu items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MenuItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.itemStore.GetByID(id)
	if err != nil {
		h.logger.Error("get menu item", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get menu item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MenuItemHandler) ListByRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant id"})
		return
	}

	items, err := h.itemStore.ListByRestaurant(id)
	if err != nil {
		h.logger.Error("list menu items by restaurant", "restaurant_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list menu items"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// parseViewQuery reads the dashboard projection parameters.
func parseViewQuery(r *http.Request) (catalog.Query, error) {
	v := r.URL.Query()
	q := catalog.Query{
		Filter: catalog.Filter{
			RestaurantID:   strings.TrimSpace(v.Get("restaurant")),
			ItemName:       v.Get("q"),
			RestaurantName: v.Get("restaurantName"),
		},
	}

	var err error
	if q.Filter.PriceMin, err = queryFloat(r, "priceMin"); err != nil {
		return q, err
	}
	if q.Filter.PriceMax, err = queryFloat(r, "priceMax"); err != nil {
		return q, err
	}
	if q.Filter.Status, err = catalog.ParseStatusFilter(v.Get("status")); err != nil {
		return q, err
	}
	if pin := v.Get("pin"); pin != "" {
		id, err := strconv.ParseInt(pin, 10, 64)
		if err != nil {
			return q, errors.New("pin must be an integer")
		}
		q.PinnedID = &id
	}
	if q.Page, err = queryInt(r, "page", 1); err != nil {
		return q, err
	}
	if q.PageSize, err = queryInt(r, "pageSize", catalog.DefaultPageSize); err != nil {
		return q, err
	}
	return q, nil
}

// View runs the catalog projection over every menu item.
func (h *MenuItemHandler) View(w http.ResponseWriter, r *http.Request) {
	q, err := parseViewQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	items, err := h.itemStore.List()
	if err != nil {
		h.logger.Error("list menu items", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list menu items"})
		return
	}
	restaurants, err := h.restaurantStore.List()
	if err != nil {
		h.logger.Error("list restaurants", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list restaurants"})
		return
	}

	writeJSON(w, http.StatusOK, catalog.Project(items, q, catalog.LookupFrom(restaurants)))
}

// Categories returns the restaurant's categories followed by the defaults.
func (h *MenuItemHandler) Categories(w http.ResponseWriter, r *http.Request) {
	id, err := parseInt64Param(r, "restaurantId")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant id"})
		return
	}

	existing, err := h.itemStore.ListCategories(id)
	if err != nil {
		h.logger.Error("list categories", "restaurant_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list categories"})
		return
	}
	writeJSON(w, http.StatusOK, category.Merge(existing))
}

func (h *MenuItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	restaurantID, ok := h.restaurantFor(w, sess, req.RestaurantID, nil)
	if !ok {
		return
	}

	m := req.toModel()
	m.RestaurantID = restaurantID
	m.CreatedBy = actor(sess)

	item, err := h.itemStore.Create(m)
	if err != nil {
		h.logger.Error("create menu item", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create menu item"})
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityMenuItem, websocket.ActionCreated, item.ID, item.RestaurantID))

	writeJSON(w, http.StatusCreated, item)
}

// loadOwned fetches item id and checks the caller may modify it. On failure
// the response is written and the item is nil.
func (h *MenuItemHandler) loadOwned(w http.ResponseWriter, r *http.Request, sess auth.Session) *model.MenuItem {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}

	existing, err := h.itemStore.GetByID(id)
	if err != nil {
		h.logger.Error("get menu item", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get menu item"})
		return nil
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return nil
	}
	if !ownsItem(sess, existing) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "menu item belongs to another restaurant"})
		return nil
	}
	return existing
}

func (h *MenuItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	existing := h.loadOwned(w, r, sess)
	if existing == nil {
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	restaurantID, ok := h.restaurantFor(w, sess, req.RestaurantID, existing.RestaurantID)
	if !ok {
		return
	}

	m := req.toModel()
	m.RestaurantID = restaurantID
	m.UpdatedBy = actor(sess)
	if m.Status == "" {
		m.Status = existing.Status
	}

	item, err := h.itemStore.Update(existing.ID, m)
	if err != nil {
		h.logger.Error("update menu item", "id", existing.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update menu item"})
		return
	}

	if existing.Photo != "" && existing.Photo != item.Photo {
		h.removePhoto(r.Context(), existing.Photo)
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityMenuItem, websocket.ActionUpdated, item.ID, item.RestaurantID))

	writeJSON(w, http.StatusOK, item)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (req *statusRequest) validate() string {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if req.Status != model.StatusActive && req.Status != model.StatusInactive {
		return "status must be active or inactive"
	}
	return ""
}

func (h *MenuItemHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	existing := h.loadOwned(w, r, sess)
	if existing == nil {
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

	item, err := h.itemStore.SetStatus(existing.ID, req.Status, actor(sess))
	if err != nil {
		h.logger.Error("set menu item status", "id", existing.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update menu item status"})
		return
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityMenuItem, websocket.ActionStatus, item.ID, item.RestaurantID))

	writeJSON(w, http.StatusOK, item)
}

func (h *MenuItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	existing := h.loadOwned(w, r, sess)
	if existing == nil {
		return
	}

	if err := h.itemStore.Delete(existing.ID); err != nil {
		h.logger.Error("delete menu item", "id", existing.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete menu item"})
		return
	}

	if existing.Photo != "" {
		h.removePhoto(r.Context(), existing.Photo)
	}

	broadcast(h.hub, websocket.NewMessage(websocket.EntityMenuItem, websocket.ActionDeleted, existing.ID, existing.RestaurantID))

	w.WriteHeader(http.StatusNoContent)
}

// removePhoto deletes a replaced or orphaned image. Failures are logged only.
func (h *MenuItemHandler) removePhoto(ctx context.Context, url string) {
	if !h.uploader.Enabled() {
		return
	}
	removePhoto(ctx, h.uploader, url, h.logger)
}

// Import bulk-creates menu items for one restaurant from an uploaded xlsx.
func (h *MenuItemHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	rid, err := strconv.ParseInt(r.FormValue("restaurantId"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "restaurantId is required"})
		return
	}
	restaurantID, ok := h.restaurantFor(w, sess, &rid, nil)
	if !ok {
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	items, err := importer.ReadMenuItems(file, r.FormValue("sheet"))
	if err != nil {
		var rowErrs importer.RowErrors
		switch {
		case errors.As(err, &rowErrs):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "some rows are invalid", "rows": rowErrs})
		case errors.Is(err, importer.ErrNoNameColumn):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			h.logger.Warn("read import workbook", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is not a readable xlsx workbook"})
		}
		return
	}

	by := actor(sess)
	for i := range items {
		items[i].RestaurantID = restaurantID
		items[i].CreatedBy = by
	}

	n, err := h.itemStore.CreateBatch(items)
	if err != nil {
		h.logger.Error("import menu items", "restaurant_id", *restaurantID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to import menu items"})
		return
	}

	h.logger.Info("menu items imported", "restaurant_id", *restaurantID, "count", n)
	broadcast(h.hub, websocket.NewMessage(websocket.EntityMenuItem, websocket.ActionImported, 0, restaurantID))

	writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
}
