// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carterperez-dev/templates/saas-backend/internal/access"
	"github.com/carterperez-dev/templates/saas-backend/internal/admin"
	"github.com/carterperez-dev/templates/saas-backend/internal/audit"
	"github.com/carterperez-dev/templates/saas-backend/internal/auth"
	"github.com/carterperez-dev/templates/saas-backend/internal/config"
	"github.com/carterperez-dev/templates/saas-backend/internal/core"
	"github.com/carterperez-dev/templates/saas-backend/internal/health"
	"github.com/carterperez-dev/templates/saas-backend/internal/middleware"
	"github.com/carterperez-dev/templates/saas-backend/internal/project"
	"github.com/carterperez-dev/templates/saas-backend/internal/server"
	"github.com/carterperez-dev/templates/saas-backend/internal/task"
	"github.com/carterperez-dev/templates/saas-backend/internal/tenant"
	"github.com/carterperez-dev/templates/saas-backend/internal/user"
	"github.com/carterperez-dev/templates/saas-backend/migrations"
)

const (
	drainDelay = 5 * time.Second

	tokenPruneInterval = time.Hour
	authRequestsPerMin = 20
	authBurst          = 5
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	auditRepo := audit.NewRepository(db.DB)
	auditRecorder := audit.NewAsyncRecorder(auditRepo, cfg.Audit, logger)

	policy := access.NewPolicy()
	resolver := access.NewResolver(access.NewLocator(db.DB), logger)
	pipeline := access.NewPipeline(
		db,
		access.NewGuard(access.NewQuotaStore()),
		auditRecorder,
		logger,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo, pipeline, resolver, policy, logger)

	tenantRepo := tenant.NewRepository(db.DB)
	tenantSvc := tenant.NewService(
		tenantRepo,
		userRepo,
		pipeline,
		resolver,
		policy,
		cfg.Tenancy,
		logger,
	)

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, userSvc, tenantSvc, tenantSvc, logger)
	userSvc.SetSessionRevoker(authSvc)

	projectSvc := project.NewService(project.NewRepository(db.DB), pipeline, resolver, policy)
	taskSvc := task.NewService(task.NewRepository(db.DB), pipeline, resolver, policy)

	authHandler := auth.NewHandler(authSvc)
	userHandler := user.NewHandler(userSvc)
	tenantHandler := tenant.NewHandler(tenantSvc)
	projectHandler := project.NewHandler(projectSvc)
	taskHandler := task.NewHandler(taskSvc)
	auditHandler := audit.NewHandler(audit.NewService(auditRepo))
	healthHandler := health.NewHandler(
		health.PingCheck("database", db),
		health.PingCheck("redis", redis),
		health.Check{
			Name: "schema",
			Probe: func(ctx context.Context) error {
				return db.CheckTables(ctx, migrations.Tables...)
			},
		},
		health.Check{Name: "audit", Probe: auditRecorder.Health},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Service:    admin.NewService(admin.NewRepository(db.DB), policy),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	planLimiter := middleware.PlanRateLimiter(redis.Client, cfg.Tenancy)
	verify := middleware.Authenticator(jwtManager)
	authenticator := func(next http.Handler) http.Handler {
		return verify(planLimiter(next))
	}

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit:    middleware.PerMinute(authRequestsPerMin, authBurst),
		KeyFunc:  middleware.KeyByIPAndEndpoint,
		Scope:    "auth",
		FailOpen: true,
	}).Handler

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authLimiter)
		tenantHandler.RegisterRoutes(r, authenticator)
		userHandler.RegisterRoutes(r, authenticator)
		projectHandler.RegisterRoutes(r, authenticator)
		taskHandler.RegisterRoutes(r, authenticator)
		auditHandler.RegisterRoutes(r, authenticator, policy.Require(access.ActionAuditList))
		adminHandler.RegisterRoutes(r, authenticator, policy.Require(access.ActionPlatformStats))
	})

	go pruneRefreshTokens(ctx, authSvc, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := auditRecorder.Close(shutdownCtx); err != nil {
		logger.Error("audit recorder close error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func pruneRefreshTokens(ctx context.Context, svc *auth.Service, logger *slog.Logger) {
	ticker := time.NewTicker(tokenPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := svc.PruneExpiredTokens(ctx, now)
			if err != nil {
				logger.Warn("refresh token prune failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned refresh tokens", "count", n)
			}
		}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
