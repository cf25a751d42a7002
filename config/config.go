package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries all process configuration, resolved once at startup and
// passed explicitly to the components that need it.
type Config struct {
	// Server
	Port           string
	AppEnv         string
	AllowedOrigins string
	BodyLimitBytes int

	// Rate limiting
	RateLimitMax    int
	RateLimitWindow time.Duration

	// Storage
	DatabasePath string

	// TMDB upstream
	TMDBAPIKey  string
	TMDBBaseURL string
	TMDBTimeout time.Duration

	// Optional response cache
	RedisURL     string
	TMDBCacheTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// ErrMissingAPIKey is returned when the TMDB credential is absent; the
// process must not start without it.
var ErrMissingAPIKey = errors.New("TMDB_API_KEY is required")

// Load reads configuration from the environment.
func Load() (*Config, error) {
	apiKey := strings.TrimSpace(os.Getenv("TMDB_API_KEY"))
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	bodyLimit := getEnvInt("BODY_LIMIT_BYTES", 0)
	if bodyLimit <= 0 {
		bodyLimit = getEnvInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	return &Config{
		Port:           getEnv("PORT", "3001"),
		AppEnv:         strings.ToLower(getEnv("APP_ENV", "development")),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", getEnv("FRONTEND_URL", "http://localhost:5173")),
		BodyLimitBytes: bodyLimit,

		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX", 60),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,

		DatabasePath: getEnv("DATABASE_PATH", "movie_app.db"),

		TMDBAPIKey:  apiKey,
		TMDBBaseURL: getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBTimeout: time.Duration(getEnvInt("TMDB_TIMEOUT_SECONDS", 10)) * time.Second,

		RedisURL:     getEnv("REDIS_URL", ""),
		TMDBCacheTTL: time.Duration(getEnvInt("TMDB_CACHE_TTL_HOURS", 6)) * time.Hour,

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}, nil
}

// Production reports whether the process runs in production mode; error
// details are withheld from responses when it does.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
