// Package main is the entrypoint for the Recipebox API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/recipebox/recipebox/internal/cache"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/handler"
	"github.com/recipebox/recipebox/internal/metrics"
	"github.com/recipebox/recipebox/internal/middleware"
	"github.com/recipebox/recipebox/internal/repository"
	"github.com/recipebox/recipebox/internal/server"
	"github.com/recipebox/recipebox/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	recorder := metrics.NewInMemory()
	userService := service.NewUserService(repo, logger, recorder)
	labelService := service.NewLabelService(repo, logger, recorder)
	recipeService := service.NewRecipeService(repo, labelService, logger, recorder)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	userHandler := handler.NewUserHandler(userService, logger)
	recipeHandler := handler.NewRecipeHandler(recipeService, logger)
	tagHandler := handler.NewTagHandler(labelService, logger)
	ingredientHandler := handler.NewIngredientHandler(labelService, logger)
	adminHandler := handler.NewAdminHandler(userService, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)

	r := setupRouter(routerDeps{
		health:     healthHandler,
		user:       userHandler,
		recipe:     recipeHandler,
		tag:        tagHandler,
		ingredient: ingredientHandler,
		admin:      adminHandler,
		metrics:    metricsHandler,
		repo:       repo,
		cache:      cacheClient,
		cfg:        cfg,
		logger:     logger,
	})

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

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

// routerDeps bundles everything setupRouter needs.
type routerDeps struct {
	health     *handler.HealthHandler
	user       *handler.UserHandler
	recipe     *handler.RecipeHandler
	tag        *handler.TagHandler
	ingredient *handler.IngredientHandler
	admin      *handler.AdminHandler
	metrics    *handler.MetricsHandler
	repo       *repository.Repository
	cache      *cache.Cache
	cfg        *config.Config
	logger     *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(chimiddleware.RequestSize(deps.cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", handler.Hello)

	authCfg := middleware.AuthConfig{
		Logger:     deps.logger,
		Repository: deps.repo,
		Cache:      deps.cache,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitEnabled,
		RPM:     deps.cfg.RateLimitRPM,
		Burst:   deps.cfg.RateLimitBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public account endpoints
		r.Route("/user", func(r chi.Router) {
			r.Post("/create", deps.user.Create)
			r.Post("/token", deps.user.Token)

			// Profile endpoints require authentication. The /me route
			// supports GET and PATCH only; other methods get a 405.
			r.Route("/me", func(r chi.Router) {
				r.Use(middleware.Auth(authCfg))
				r.Use(middleware.RateLimit(rateLimitCfg))
				r.Get("/", deps.user.Me)
				r.Patch("/", deps.user.UpdateMe)
			})
		})

		// Recipe endpoints (require authentication)
		r.Route("/recipe", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RateLimit(rateLimitCfg))

			r.Route("/recipes", func(r chi.Router) {
				r.Get("/", deps.recipe.List)
				r.Post("/", deps.recipe.Create)
				r.Get("/{id}", deps.recipe.Get)
				r.Patch("/{id}", deps.recipe.Update)
				r.Delete("/{id}", deps.recipe.Delete)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", deps.tag.List)
				r.Post("/", deps.tag.Create)
				r.Patch("/{id}", deps.tag.Update)
				r.Delete("/{id}", deps.tag.Delete)
			})

			r.Route("/ingredients", func(r chi.Router) {
				r.Get("/", deps.ingredient.List)
				r.Post("/", deps.ingredient.Create)
				r.Patch("/{id}", deps.ingredient.Update)
				r.Delete("/{id}", deps.ingredient.Delete)
			})
		})

		// Admin endpoints (staff only)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RequireStaff())
			r.Delete("/users/{id}", deps.admin.DeleteUser)
		})
	})

	// 404 and 405 handlers
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

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

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
