// Package main is the entrypoint for the EchoServe API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/echoserve/echoserve/internal/auth"
	"github.com/echoserve/echoserve/internal/config"
	"github.com/echoserve/echoserve/internal/handler"
	"github.com/echoserve/echoserve/internal/middleware"
	"github.com/echoserve/echoserve/internal/ratelimit"
	"github.com/echoserve/echoserve/internal/server"
	"github.com/echoserve/echoserve/internal/store"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Establish the document store connection. The manager guarantees a
	// single shared attempt; failure here is fatal for the process.
	mgr := store.NewManager(cfg.MongoURI, cfg.MongoDatabase)
	st, err := mgr.Store(ctx)
	if err != nil {
		logger.Error(
			"failed to connect to mongodb",
			slog.String("error", sanitizeError(err, cfg.MongoURI)),
			slog.String("mongo_uri", redactURL(cfg.MongoURI)),
		)
		os.Exit(1)
	}
	logger.Info("connected to mongodb", "database", cfg.MongoDatabase)

	// Initialize the identity verifier. A credential set that fails to
	// parse is fatal at startup.
	verifier, err := auth.NewFirebaseVerifier(ctx, []byte(cfg.FirebaseCredentialsJSON))
	if err != nil {
		logger.Error("failed to initialize identity verifier", "error", err)
		os.Exit(1)
	}
	logger.Info("identity verifier ready")

	// Optional per-IP rate limiting of the public surface.
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter, err = ratelimit.New(ctx, cfg.RedisURL, cfg.RateLimitRPS, cfg.RateLimitBurst)
		if err != nil {
			logger.Error(
				"failed to connect to redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		logger.Info("rate limiter ready")
	}

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(st)
	userHandler := handler.NewUserHandler(st, logger)
	serviceHandler := handler.NewServiceHandler(st, logger)
	reviewHandler := handler.NewReviewHandler(st, st, logger)
	statsHandler := handler.NewStatsHandler(st, logger)

	r := setupRouter(h, healthHandler, userHandler, serviceHandler, reviewHandler, statsHandler, verifier, limiter, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("mongodb", st.Close)
	if limiter != nil {
		srv.OnShutdown("rate limiter", func(ctx context.Context) error {
			return limiter.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	userHandler *handler.UserHandler,
	serviceHandler *handler.ServiceHandler,
	reviewHandler *handler.ReviewHandler,
	statsHandler *handler.StatsHandler,
	verifier auth.Verifier,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	requireAuth := middleware.RequireAuth(verifier, logger)

	// A typed nil *Limiter must not reach the interface, or the
	// middleware's disabled check would miss it.
	var ipLimiter middleware.IPRateLimiter
	if limiter != nil {
		ipLimiter = limiter
	}
	throttle := middleware.RateLimitIP(ipLimiter, logger)

	// Health endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Liveness root
	r.Get("/", h.Root)

	// Users
	r.Post("/users", userHandler.Create)
	r.Get("/users", userHandler.Exists)
	r.With(throttle).Get("/platform-stats", statsHandler.Stats)

	// Services
	r.With(throttle).Get("/allServices", serviceHandler.ListAll)
	r.With(throttle).Get("/sixServices", serviceHandler.ListFiltered)
	r.Post("/services", serviceHandler.Create)
	r.With(requireAuth).Get("/services", serviceHandler.ListOwned)
	r.Route("/services/{id}", func(r chi.Router) {
		r.With(throttle).Get("/", serviceHandler.Get)
		r.With(requireAuth).Patch("/", serviceHandler.Update)
		r.With(requireAuth).Delete("/", serviceHandler.Delete)
	})

	// Reviews
	r.Post("/reviews", reviewHandler.Create)
	r.With(requireAuth).Get("/reviews", reviewHandler.List)
	r.Route("/reviews/{id}", func(r chi.Router) {
		r.With(requireAuth).Patch("/", reviewHandler.Update)
		r.With(requireAuth).Delete("/", reviewHandler.Delete)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// redactURL strips credentials from a connection URL before logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

// sanitizeError removes secrets from an error message before logging.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return msg
}
