package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the register endpoints. metrics may be nil, in which case
// /metrics is not served.
func NewRouter(h *Handler, metrics *Metrics) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	if metrics != nil {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Get("/healthz", h.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", h.Dashboard)
		r.Route("/correspondence", func(r chi.Router) {
			r.Post("/", h.Submit)
			r.Get("/search", h.Search)
			r.Patch("/{refID}/status", h.UpdateStatus)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "no such endpoint")
	})

	return r
}

// RequestLogger logs every request at a level that follows the status:
// info below 400, warn for client errors, error for server errors.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newStatusRecorder(w)

			next.ServeHTTP(wrapped, r)

			level := slog.LevelInfo
			if wrapped.status >= 500 {
				level = slog.LevelError
			} else if wrapped.status >= 400 {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.status),
				slog.Duration("duration", time.Since(start)),
				slog.Int64("bytes", wrapped.written),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
