package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shophouse/shophouse/internal/auth"
	"github.com/shophouse/shophouse/internal/email"
	"github.com/shophouse/shophouse/internal/handler"
	"github.com/shophouse/shophouse/internal/metrics"
	"github.com/shophouse/shophouse/internal/middleware"
	"github.com/shophouse/shophouse/internal/store"
	ws "github.com/shophouse/shophouse/internal/websocket"
)

type Server struct {
	db             *sql.DB
	hub            *ws.Hub
	authH          *handler.AuthHandler
	houseH         *handler.HouseHandler
	itemH          *handler.ItemHandler
	profileH       *handler.ProfileHandler
	sessionStore   *store.SessionStore
	resetCodeStore *store.ResetCodeStore
	houseStore     *store.HouseStore
	rateLimiter    *middleware.RateLimiter
	metrics        *metrics.Metrics
	authRateLimit  int
	logger         *slog.Logger
}

func New(db *sql.DB, emailClient *email.Client, authRateLimit int, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	houseStore := store.NewHouseStore(db)
	itemStore := store.NewItemStore(db)
	sessionStore := store.NewSessionStore(db)
	resetCodeStore := store.NewResetCodeStore(db)

	return &Server{
		db:             db,
		hub:            hub,
		authH:          handler.NewAuthHandler(userStore, profileStore, sessionStore, resetCodeStore, emailClient, logger.With("component", "auth")),
		houseH:         handler.NewHouseHandler(houseStore, logger.With("component", "house")),
		itemH:          handler.NewItemHandler(itemStore, houseStore, hub, logger.With("component", "item")),
		profileH:       handler.NewProfileHandler(profileStore, userStore, sessionStore, logger.With("component", "profile")),
		sessionStore:   sessionStore,
		resetCodeStore: resetCodeStore,
		houseStore:     houseStore,
		rateLimiter:    middleware.NewRateLimiter(),
		metrics:        metrics.New(),
		authRateLimit:  authRateLimit,
		logger:         logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// ResetCodeStore returns the reset code store for cleanup tasks.
func (s *Server) ResetCodeStore() *store.ResetCodeStore {
	return s.resetCodeStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/signup", s.rateLimitedHandler(s.authH.SignUp))
	outerMux.HandleFunc("POST /api/auth/signin", s.rateLimitedHandler(s.authH.SignIn))
	outerMux.HandleFunc("POST /api/auth/reset/request", s.rateLimitedHandler(s.authH.RequestReset))
	outerMux.HandleFunc("POST /api/auth/reset/verify", s.rateLimitedHandler(s.authH.VerifyReset))
	outerMux.HandleFunc("POST /api/auth/reset/confirm", s.rateLimitedHandler(s.authH.ConfirmReset))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", s.metrics.Handler())

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	h := middleware.CollectMetrics(s.metrics)(outerMux)
	return middleware.RequestLogger(s.logger.With("component", "http"))(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/signout", s.authH.SignOut)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	mux.HandleFunc("POST /api/houses", s.houseH.Create)
	mux.HandleFunc("POST /api/houses/join", s.houseH.Join)
	mux.HandleFunc("GET /api/houses", s.houseH.List)
	mux.HandleFunc("GET /api/houses/{id}", s.houseH.Get)
	mux.HandleFunc("GET /api/houses/{id}/members", s.houseH.Members)

	mux.HandleFunc("POST /api/houses/{house_id}/items", s.itemH.Create)
	mux.HandleFunc("GET /api/houses/{house_id}/items", s.itemH.List)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)
	mux.HandleFunc("POST /api/items/{id}/toggle", s.itemH.ToggleBought)

	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Update)
	mux.HandleFunc("GET /api/profile/stats", s.profileH.Stats)
	mux.HandleFunc("DELETE /api/profile", s.profileH.DeleteAccount)

	mux.HandleFunc("GET /ws", s.websocketHandler)
}

// websocketHandler verifies house membership before handing the connection to
// the hub, and keeps the connected-clients gauge current.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	houseID := r.URL.Query().Get("house_id")
	if houseID == "" {
		http.Error(w, "house_id is required", http.StatusBadRequest)
		return
	}

	member, err := s.houseStore.GetMember(houseID, auth.UserID(r.Context()))
	if err != nil {
		s.logger.Error("websocket membership lookup", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if member == nil {
		http.Error(w, "not a member of this house", http.StatusForbidden)
		return
	}

	s.metrics.WebsocketClients.Inc()
	defer s.metrics.WebsocketClients.Dec()
	ws.Handle(s.hub, s.logger.With("component", "websocket"))(w, r)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, s.authRateLimit, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
