package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"movieapp-backend/config"
	"movieapp-backend/controllers"
	"movieapp-backend/database"
	"movieapp-backend/metrics"
	"movieapp-backend/middlewares"
	"movieapp-backend/routes"
	"movieapp-backend/tmdb"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	// ---- Database (explicit lifecycle: open here, close on shutdown)
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("could not open database", slog.String("path", cfg.DatabasePath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := db.AutoMigrate(); err != nil {
		logger.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// ---- Optional Redis for upstream response caching
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, response cache disabled", slog.String("error", err.Error()))
		} else {
			redisClient = redis.NewClient(opts)
		}
	}

	tmdbClient := tmdb.NewClient(tmdb.Config{
		APIKey:   cfg.TMDBAPIKey,
		BaseURL:  cfg.TMDBBaseURL,
		Client:   &http.Client{Timeout: cfg.TMDBTimeout},
		Redis:    redisClient,
		CacheTTL: cfg.TMDBCacheTTL,
	})

	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.NewErrorHandler(cfg.Production(), logger),
		BodyLimit:    cfg.BodyLimitBytes,
	})
	app.Use(recover.New())

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	// ---- Routes
	routes.Register(app, routes.Deps{
		Movies:  controllers.NewMovieController(tmdbClient, database.NewMovieCache(db), logger),
		Metrics: controllers.NewMetricsController(database.NewMetricsStore(db), logger),
	})

	// ---- Start and wait for shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + cfg.Port)
	}()

	logger.Info("movie app backend started",
		slog.String("port", cfg.Port),
		slog.String("env", cfg.AppEnv),
		slog.String("database", cfg.DatabasePath),
		slog.Bool("hasRedis", redisClient != nil),
	)

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	if err := db.Close(); err != nil {
		logger.Warn("database close error", slog.String("error", err.Error()))
	}
	logger.Info("movie app backend stopped")
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(strings.TrimSpace(levelRaw)) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}
	if strings.ToLower(strings.TrimSpace(formatRaw)) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}
