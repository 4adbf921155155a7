// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"log/slog"
	"net/http"

	"dogdiet/internal/app"
	"dogdiet/internal/metrics"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	diet        *app.DietService
	authSvc     *app.AuthService
	metrics     *metrics.Metrics
	logger      *slog.Logger
	disableAuth bool
}

// New creates a Server wired to the given application services. m and logger
// may be nil.
func New(diet *app.DietService, authSvc *app.AuthService, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{diet: diet, authSvc: authSvc, metrics: m, logger: logger}
}

// WithoutAuth disables authentication. Used by tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.Handle("/health", s.instrument("health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})))

	api.Handle("/diet/activity-levels", s.protected("activity_levels", s.handleActivityLevels))
	api.Handle("/diet/plan", s.protected("plan", s.handlePlan))
	api.Handle("/diet/plan.xlsx", s.protected("plan_xlsx", s.handlePlanXLSX))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))
	if s.metrics != nil {
		root.Handle("/metrics", s.metrics.Handler())
	}

	return withRequestID(s.loggingMiddleware(withNoCache(root)))
}

func (s *Server) protected(name string, h http.HandlerFunc) http.Handler {
	return s.instrument(name, s.authMiddleware(h))
}

func (s *Server) instrument(name string, h http.Handler) http.Handler {
	if s.metrics == nil {
		return h
	}
	return s.metrics.InstrumentHandler(name, h)
}
