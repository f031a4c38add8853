// Package api serves the aggregator over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/sources"
)

// NewsService is the aggregator surface the API depends on.
type NewsService interface {
	ListSources() []sources.Summary
	FetchAll(ctx context.Context) []domain.Record
	FetchOne(ctx context.Context, id string) []domain.Record
}

// ServerOption configures the router.
type ServerOption func(*serverConfig)

type serverConfig struct {
	log            logger.Logger
	metricsHandler http.Handler
	middlewares    []func(http.Handler) http.Handler
}

// WithLogger sets the request logger.
func WithLogger(log logger.Logger) ServerOption {
	return func(cfg *serverConfig) { cfg.log = logger.Ensure(log) }
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) { cfg.metricsHandler = h }
}

// WithMiddlewares appends middleware after the defaults.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewServer builds the router for svc.
func NewServer(svc NewsService, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{log: logger.NopLogger{}}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		LoggingMiddleware(cfg.log),
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	h := &handlers{svc: svc}
	r.Get("/", h.root)
	r.Get("/health", h.health)
	r.Get("/sources", h.listSources)
	r.Get("/news", h.fetchAll)
	r.Get("/news/{sourceID}", h.fetchOne)
	if cfg.metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metricsHandler)
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteErrorResponse(w, "not found", http.StatusNotFound)
	})
	return r
}

// LoggingMiddleware logs every request at debug level.
func LoggingMiddleware(log logger.Logger) func(http.Handler) http.Handler {
	log = logger.Ensure(log)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.DebugObj("http request", "http_request", map[string]any{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"elapsed_ms": time.Since(start).Milliseconds(),
				"request_id": middleware.GetReqID(r.Context()),
			})
		})
	}
}
