package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/juristmind/newsroom/pkg/news"
	"github.com/juristmind/newsroom/pkg/news/storage"
)

// RouterConfig wires the HTTP surface. Only News is required.
type RouterConfig struct {
	News     news.Service
	Auth     *Authenticator
	Logger   *slog.Logger
	Media    storage.BlobStore
	Notifier Notifier
	Limiter  *RateLimiter

	// Metrics and MetricsHandler enable request metrics and the /metrics endpoint.
	Metrics        MetricsCollector
	MetricsHandler http.Handler

	// Ready backs /healthz/ready; nil means always ready.
	Ready func(ctx context.Context) error

	RequestTimeout time.Duration
}

// NewRouter builds the service router.
func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	if cfg.Metrics != nil {
		r.Use(MetricsMiddleware(cfg.Metrics))
	}
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware(logger))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Get("/healthz/ready", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Ready(ctx); err != nil {
				logger.WarnContext(r.Context(), "readiness check failed", "error", err)
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, map[string]string{"status": "unavailable"})
				return
			}
		}
		render.JSON(w, r, map[string]string{"status": "ready"})
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Handle("/news", NewNewsHandler(cfg.News, cfg.Auth, logger))

	if cfg.Media != nil {
		r.Mount("/media", NewMediaHandler(cfg.Media, cfg.Auth, logger).Routes())
	}
	if cfg.Notifier != nil {
		NewNotifyHandler(cfg.Notifier, cfg.Limiter, logger).Mount(r)
	}

	return r
}
