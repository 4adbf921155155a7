package adapthttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"dogdiet/internal/app"
	"dogdiet/internal/domain"

	"github.com/google/uuid"
)

type contextKey string

const (
	principalContextKey contextKey = "principal"
	requestIDContextKey contextKey = "request_id"
)

const requestIDHeader = "X-Request-ID"

// withRequestID propagates the caller's request ID or assigns a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs one line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", requestIDFromContext(r.Context())),
		)
	})
}

// authMiddleware validates bearer tokens when authentication is configured.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if disabled (for tests)
		if s.disableAuth || !s.authSvc.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		p, err := s.authSvc.Authenticate(r.Context(), app.BearerToken(r.Header.Get("Authorization")))
		if errors.Is(err, app.ErrUnauthorized) {
			w.Header().Set("WWW-Authenticate", `Bearer realm="dogdiet"`)
			writeError(w, http.StatusUnauthorized, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFromContext(r *http.Request) *domain.Principal {
	p, _ := r.Context().Value(principalContextKey).(*domain.Principal)
	return p
}
