// AngelaMos | 2026
// serve.go

package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"github.com/parcel-land/parcel-api/internal/auth"
	"github.com/parcel-land/parcel-api/internal/core"
	"github.com/parcel-land/parcel-api/internal/favorite"
	"github.com/parcel-land/parcel-api/internal/health"
	"github.com/parcel-land/parcel-api/internal/listing"
	"github.com/parcel-land/parcel-api/internal/middleware"
	"github.com/parcel-land/parcel-api/internal/savedsearch"
	"github.com/parcel-land/parcel-api/internal/server"
	"github.com/parcel-land/parcel-api/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

// Signup and login are throttled per IP well below the global limit.
var credentialLimit = middleware.PerMinute(10, 5)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

//nolint:funlen // bootstrap code is inherently verbose
func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

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
		applied, migErr := core.Migrate(ctx, db.DB, logger)
		if migErr != nil {
			return migErr
		}
		logger.Info("migrations applied", "count", applied)
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

	userSvc := user.NewService(user.NewRepository(db.DB))
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		jwtManager,
		userSvc,
		auth.NewRedisBlacklist(redis.Client),
		logger,
	)
	authHandler := auth.NewHandler(authSvc)

	favoriteSvc := favorite.NewService(favorite.NewRepository(db.DB))
	favoriteHandler := favorite.NewHandler(favoriteSvc)

	listingSvc := listing.NewService(listing.NewRepository(db.DB), favoriteSvc, cfg.Listing)
	listingHandler := listing.NewHandler(listingSvc)

	savedSearchHandler := savedsearch.NewHandler(
		savedsearch.NewService(savedsearch.NewRepository(db.DB), listingSvc),
	)

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Checker: db},
		health.Check{Name: "redis", Checker: redis},
	)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Logger(logger))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerWindow(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Window,
				cfg.RateLimit.Burst,
			),
		}).Handler,
	)

	srv.MountHealth()

	if !cfg.IsProduction() {
		health.NewStatsHandler(db.Stats, redis.Client.PoolStats).RegisterRoutes(router)
	}

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	tiered := middleware.TieredRateLimiter(redis.Client, middleware.DefaultTiers)
	authenticator := func(next http.Handler) http.Handler {
		return middleware.Authenticator(authSvc)(tiered(next))
	}
	optionalAuth := middleware.OptionalAuth(authSvc)
	authLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: credentialLimit,
		KeyFunc: func(r *http.Request) string {
			return "credentials:" + middleware.KeyByIP(r)
		},
	}).Handler

	router.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, authLimit)
		userHandler.RegisterRoutes(r, authenticator)
		listingHandler.RegisterRoutes(r, optionalAuth)
		favoriteHandler.RegisterRoutes(r, authenticator)
		savedSearchHandler.RegisterRoutes(r, authenticator)
	})

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
