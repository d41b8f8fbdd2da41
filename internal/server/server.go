package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/cors"

	"github.com/dukerupert/menuboard/internal/config"
	"github.com/dukerupert/menuboard/internal/handler"
	"github.com/dukerupert/menuboard/internal/middleware"
	"github.com/dukerupert/menuboard/internal/notify"
	"github.com/dukerupert/menuboard/internal/store"
	"github.com/dukerupert/menuboard/internal/upload"
	ws "github.com/dukerupert/menuboard/internal/websocket"
)

// Login routes allow this many attempts per client and path per minute.
const loginAttemptsPerMinute = 10

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	menuItemH      *handler.MenuItemHandler
	restaurantH    *handler.RestaurantHandler
	authH          *handler.AuthHandler
	uploadH        *handler.UploadHandler
	sessionStore   *store.SessionStore
	adminStore     *store.AdminStore
	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	trustProxy     bool
	logger         *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, uploader *upload.Uploader, notifier notify.Notifier, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	menuItemStore := store.NewMenuItemStore(db)
	restaurantStore := store.NewRestaurantStore(db)
	adminStore := store.NewAdminStore(db)
	sessionStore := store.NewSessionStore(db)

	return &Server{
		db:             db,
		hub:            hub,
		menuItemH:      handler.NewMenuItemHandler(menuItemStore, restaurantStore, uploader, hub, logger.With("component", "menu_item")),
		restaurantH:    handler.NewRestaurantHandler(restaurantStore, menuItemStore, sessionStore, uploader, notifier, hub, logger.With("component", "restaurant")),
		authH:          handler.NewAuthHandler(restaurantStore, adminStore, sessionStore, cfg.SessionTTL, logger.With("component", "auth")),
		uploadH:        handler.NewUploadHandler(uploader, logger.With("component", "upload")),
		sessionStore:   sessionStore,
		adminStore:     adminStore,
		rateLimiter:    middleware.NewRateLimiter(),
		allowedOrigins: cfg.AllowedOrigins,
		trustProxy:     cfg.TrustProxy,
		logger:         logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// AdminStore returns the admin store for seeding.
func (s *Server) AdminStore() *store.AdminStore {
	return s.adminStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the change-feed hub so it can be shut down with the server.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// Drain waits for notifications queued by finished requests.
func (s *Server) Drain() {
	s.restaurantH.Wait()
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("GET /api/menuitems", s.menuItemH.List)
	outerMux.HandleFunc("GET /api/menuitems/view", s.menuItemH.View)
	outerMux.HandleFunc("GET /api/menuitems/{id}", s.menuItemH.Get)
	outerMux.HandleFunc("GET /api/menuitems/findAllByRestaurant/{id}", s.menuItemH.ListByRestaurant)
	outerMux.HandleFunc("GET /api/menuitems/restaurant/{id}", s.menuItemH.ListByRestaurant)

	outerMux.HandleFunc("GET /api/restaurants", s.restaurantH.List)
	outerMux.HandleFunc("GET /api/restaurants/view", s.restaurantH.View)
	outerMux.HandleFunc("GET /api/restaurants/{id}", s.restaurantH.Get)
	outerMux.HandleFunc("GET /api/menus/{username}", s.restaurantH.Menu)

	outerMux.HandleFunc("POST /api/restaurants/login", s.rateLimitedHandler(s.authH.RestaurantLogin))
	outerMux.HandleFunc("POST /api/admin/login", s.rateLimitedHandler(s.authH.AdminLogin))

	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, originHosts(s.allowedOrigins), s.logger.With("component", "websocket")))

	// Protected routes, wrapped with RequireAuth
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "X-Requested-With"},
		AllowCredentials: true,
	})

	return middleware.RequestLogger(s.logger.With("component", "http"))(c.Handler(outerMux))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check", "error", err)
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.ByIPAndPath(s.trustProxy), loginAttemptsPerMinute, time.Minute)
	return rl(h).ServeHTTP
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/session", s.authH.Session)

	// Menu items, scoped to the caller's restaurant unless admin
	mux.HandleFunc("POST /api/menuitems", s.menuItemH.Create)
	mux.HandleFunc("PUT /api/menuitems/{id}", s.menuItemH.Update)
	mux.HandleFunc("PATCH /api/menuitems/{id}/status", s.menuItemH.SetStatus)
	mux.HandleFunc("DELETE /api/menuitems/{id}", s.menuItemH.Delete)
	mux.HandleFunc("GET /api/menuitems/categories/{restaurantId}", s.menuItemH.Categories)
	mux.Handle("POST /api/menuitems/import", adminOnly(s.menuItemH.Import))

	// Restaurants
	mux.HandleFunc("PUT /api/restaurants/{id}", s.restaurantH.Update)
	mux.Handle("POST /api/restaurants", adminOnly(s.restaurantH.Create))
	mux.Handle("PATCH /api/restaurants/{id}/status", adminOnly(s.restaurantH.SetStatus))
	mux.Handle("DELETE /api/restaurants/{id}", adminOnly(s.restaurantH.Delete))

	mux.HandleFunc("POST /api/upload/upload-image", s.uploadH.Image)
}

// originHosts turns CORS origins into the host patterns the websocket
// handshake checks.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			hosts = append(hosts, o)
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
