package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/juristmind/newsroom/internal/logging"
	"github.com/juristmind/newsroom/internal/metrics"
	"github.com/juristmind/newsroom/pkg/news"
	"github.com/juristmind/newsroom/pkg/news/api"
	"github.com/juristmind/newsroom/pkg/news/config"
	"github.com/juristmind/newsroom/pkg/notify"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n\n%s\n", err, config.Usage())
		os.Exit(1)
	}

	logger := logging.New(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		dbType, _ := cfg.DatabaseType()
		storageType, _ := cfg.StorageType()
		logger.Info("Newsroom server starting",
			"port", cfg.Port,
			"env", cfg.Environment,
			"database", dbType,
			"storage", storageType,
		)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exiting")
	return nil
}

type app struct {
	handler http.Handler
	close   func()
}

// newApp wires the repository, media store, mailer and metrics into the router.
// ctx bounds the lifetime of background work such as rate limiter cleanup.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	repo, closeRepo, err := cfg.BuildRepository(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}

	m := metrics.New()

	svc, err := news.New(
		news.WithRepository(repo),
		news.WithMutationObserver(m),
		news.WithLogger(logger),
	)
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("failed to build news service: %w", err)
	}

	store, err := cfg.BuildBlobStore()
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("failed to build media store: %w", err)
	}

	mailer, err := cfg.BuildMailer(logger)
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("failed to build mailer: %w", err)
	}
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set; notification emails will only be logged")
	}

	notifier, err := notify.NewService(mailer, cfg.OperatorEmail,
		notify.WithBrand(cfg.BrandName),
		notify.WithObserver(m),
		notify.WithLogger(logger),
	)
	if err != nil {
		closeRepo()
		return nil, fmt.Errorf("failed to build notification service: %w", err)
	}

	auth := api.NewAuthenticator(cfg.AuthJWTSecret)
	if !auth.VerifiesTokens() {
		logger.Warn("AUTH_JWT_SECRET not set; write endpoints only check that a bearer token is present")
	}

	router := api.NewRouter(api.RouterConfig{
		News:           svc,
		Auth:           auth,
		Logger:         logger,
		Media:          store,
		Notifier:       notifier,
		Limiter:        api.NewRateLimiter(ctx, cfg.ContactRatePerMinute),
		Metrics:        m,
		MetricsHandler: m.Handler(),
		Ready:          repo.Ping,
	})

	return &app{handler: router, close: closeRepo}, nil
}
