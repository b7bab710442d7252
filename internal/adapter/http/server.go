package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scopesignals/coverage/internal/coverage"
	"github.com/scopesignals/coverage/internal/domain"
)

// Server exposes the coverage API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer    *http.Server
	logger        *slog.Logger
	catalog       *coverage.Catalog
	sessions      *coverage.Store
	settings      domain.MapSettings
	defaultModule domain.Module
	validate      *validator.Validate
}

// NewServer creates an HTTP server with the coverage API, /healthz, /readyz, and /metrics routes.
// Sessions created without a module start on defaultModule.
func NewServer(addr string, catalog *coverage.Catalog, sessions *coverage.Store, settings domain.MapSettings, defaultModule domain.Module, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:        logger,
		catalog:       catalog,
		sessions:      sessions,
		settings:      settings,
		defaultModule: defaultModule,
		validate:      newValidator(),
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/modules", s.handleModules)
	mux.HandleFunc("GET /api/coverage/{module}", s.handleCoverage)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /api/sessions/{id}/module", s.handleChangeModule)
	mux.HandleFunc("POST /api/sessions/{id}/hover", s.handleHover)
	mux.HandleFunc("POST /api/sessions/{id}/select", s.handleSelect)
	mux.HandleFunc("DELETE /api/sessions/{id}/selection", s.handleClearSelection)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
