package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/user/top-movies-go/internal/forms"
	"github.com/user/top-movies-go/internal/provider"
	"github.com/user/top-movies-go/internal/store"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// Options configures the web server
type Options struct {
	// ImageBaseURL is joined with provider poster paths to build img_url
	ImageBaseURL string
	// SessionSecret signs the session and csrf cookies; a random key is used when empty
	SessionSecret string
	// SecureCookies marks cookies Secure and enforces the csrf referer check for HTTPS
	SecureCookies bool
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Server serves the movie catalogue pages, health checks and metrics
type Server struct {
	store     store.Store
	provider  provider.Provider
	pages     *pageSet
	sessions  *sessionManager
	csrf      func(http.Handler) http.Handler
	router    chi.Router
	server    *http.Server
	opts      Options
	startTime time.Time
}

// NewServer creates a new HTTP server instance
func NewServer(store store.Store, provider provider.Provider, opts Options) (*Server, error) {
	pages, err := loadPages()
	if err != nil {
		return nil, err
	}

	if opts.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET not set, using random keys; sessions will not survive a restart")
	}
	sessionKey, err := deriveKey(opts.SessionSecret, "session")
	if err != nil {
		return nil, err
	}
	csrfKey, err := deriveKey(opts.SessionSecret, "csrf")
	if err != nil {
		return nil, err
	}

	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 30 * time.Second
	}

	s := &Server{
		store:     store,
		provider:  provider,
		pages:     pages,
		sessions:  newSessionManager(sessionKey, opts.SecureCookies),
		router:    chi.NewRouter(),
		opts:      opts,
		startTime: time.Now(),
	}

	s.csrf = csrf.Protect(csrfKey,
		csrf.CookieName("top_movies_csrf"),
		csrf.FieldName(forms.CSRFField),
		csrf.Path("/"),
		csrf.Secure(opts.SecureCookies),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
	)

	s.setupRoutes()
	return s, nil
}

// setupRoutes configures middleware and HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RealIP)
	s.router.Use(hlog.NewHandler(log.Logger))
	s.router.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("HTTP request")
	}))
	s.router.Use(middleware.Recoverer)
	if !s.opts.SecureCookies {
		s.router.Use(plaintextHTTP)
	}
	s.router.Use(s.csrf)

	s.router.Get("/", s.handleList)
	s.router.Get("/add", s.handleAddForm)
	s.router.Post("/add", s.handleAddSubmit)
	s.router.Get("/find", s.handleFind)
	s.router.Get("/edit", s.handleEditForm)
	s.router.Post("/edit", s.handleEditSubmit)
	s.router.Get("/delete", s.handleDelete)

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// plaintextHTTP tells the csrf middleware the request arrived over plain HTTP,
// so it skips the HTTPS-only referer check
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins listening on the specified port
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Int("port", port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.Info().Msg("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth reports database connectivity and uptime as JSON
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		dbStatus = fmt.Sprintf("unhealthy: %v", err)
	}

	uptime := s.GetUptime().Round(time.Second).String()

	status := "healthy"
	if dbStatus != "healthy" {
		status = "unhealthy"
	}

	response := HealthResponse{
		Status:   status,
		Database: dbStatus,
		Uptime:   uptime,
	}

	w.Header().Set("Content-Type", "application/json")
	if status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("Failed to encode health response")
	}
}

// GetUptime returns the server uptime
func (s *Server) GetUptime() time.Duration {
	return time.Since(s.startTime)
}
