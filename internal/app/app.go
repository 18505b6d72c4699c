package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/phoneshop-backend/internal/adapter/postgres"
	redisadapter "github.com/heartmarshall/phoneshop-backend/internal/adapter/redis"
	"github.com/heartmarshall/phoneshop-backend/internal/config"
	"github.com/heartmarshall/phoneshop-backend/internal/metrics"
	"github.com/heartmarshall/phoneshop-backend/internal/ratelimit"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/middleware"
	"github.com/heartmarshall/phoneshop-backend/internal/transport/rest"
	"github.com/heartmarshall/phoneshop-backend/migrations"
)

// Run is the server entry point. It loads configuration, connects to
// PostgreSQL (and Redis when configured), applies migrations, and serves HTTP
// until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Int64("home_shop_id", cfg.Inventory.HomeShopID),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		n, err := postgres.Migrate(ctx, pool, migrations.FS)
		if err != nil {
			return fmt.Errorf("app: migrate: %w", err)
		}
		logger.Info("migrations applied", slog.Int("count", n))
	}

	checks := []rest.HealthCheck{{Name: "database", Pinger: pool}}

	var store ratelimit.Store
	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendRedis:
		client, err := redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("app: %w", err)
		}
		defer client.Close()
		store = redisadapter.NewAttemptStore(client, cfg.Redis.KeyPrefix)
		checks = append(checks, rest.HealthCheck{
			Name:   "redis",
			Pinger: rest.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		})
	default:
		mem := ratelimit.NewMemoryStore(cfg.RateLimit.CleanupInterval)
		defer mem.Stop()
		store = mem
	}
	loginLimiter := ratelimit.New(store, cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginWindow)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	svc := NewServices(logger, pool, cfg, loginLimiter, m)

	requestLimiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer requestLimiter.Stop()

	routerCfg := RouterConfig{
		Logger:         logger,
		Tokens:         svc.Auth,
		CORS:           cfg.CORS,
		SessionCookie:  cfg.Auth.SessionCookie,
		Limiter:        requestLimiter,
		RequestsPerMin: cfg.RateLimit.RequestsPerMin,
		MetricsPath:    cfg.Metrics.Path,
	}
	if m != nil {
		routerCfg.Metrics = m
	}

	handler := NewRouter(routerCfg, NewHandlers(logger, svc, cfg, checks))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

// NewHandlers creates the REST handlers over svc.
func NewHandlers(logger *slog.Logger, svc *Services, cfg *config.Config, checks []rest.HealthCheck) Handlers {
	return Handlers{
		Health:    rest.NewHealthHandler(Version, checks...),
		Auth:      rest.NewAuthHandler(svc.Auth, rest.SessionCookie{Name: cfg.Auth.SessionCookie, Secure: cfg.Auth.SecureCookie}, logger),
		Inventory: rest.NewInventoryHandler(svc.Inventory, logger),
		Users:     rest.NewUserHandler(svc.Users, logger),
		Reports:   rest.NewReportHandler(svc.Reports, logger),
		Forms:     rest.NewFormHandler(svc.Inventory, logger),
	}
}
