package controllers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"movieapp-backend/metrics"
	"movieapp-backend/tmdb"
)

const (
	// How many results of one upstream response are mirrored into the
	// movie cache.
	searchCacheLimit   = 5
	discoverCacheLimit = 10
)

// MovieFetcher is the slice of the TMDB client the movie endpoints need.
type MovieFetcher interface {
	Search(ctx context.Context, query string, page int) (*tmdb.Page, error)
	Discover(ctx context.Context, page int) (*tmdb.Page, error)
}

// MovieCacher persists upstream movie records.
type MovieCacher interface {
	Upsert(movie tmdb.Movie) error
}

// MovieController proxies search and discover requests to the external API
// and mirrors a slice of every result set into the local movie cache.
type MovieController struct {
	movies MovieFetcher
	cache  MovieCacher
	log    *slog.Logger
}

func NewMovieController(movies MovieFetcher, cache MovieCacher, log *slog.Logger) *MovieController {
	return &MovieController{movies: movies, cache: cache, log: log}
}

// Search handles GET /api/movies/search?q=...&page=N.
func (mc *MovieController) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Search query is required")
	}
	page := c.QueryInt("page", 1)

	result, err := mc.fetch(c.Context(), "search", func(ctx context.Context) (*tmdb.Page, error) {
		return mc.movies.Search(ctx, query, page)
	})
	if err != nil {
		mc.log.Error("search failed", slog.String("query", query), slog.String("error", err.Error()))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to search movies")
	}

	mc.cacheInBackground(result.Results, searchCacheLimit)
	return c.JSON(result)
}

// Discover handles GET /api/movies/discover?page=N.
func (mc *MovieController) Discover(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	result, err := mc.fetch(c.Context(), "discover", func(ctx context.Context) (*tmdb.Page, error) {
		return mc.movies.Discover(ctx, page)
	})
	if err != nil {
		mc.log.Error("discover failed", slog.String("error", err.Error()))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to discover movies")
	}

	mc.cacheInBackground(result.Results, discoverCacheLimit)
	return c.JSON(result)
}

func (mc *MovieController) fetch(ctx context.Context, endpoint string, call func(context.Context) (*tmdb.Page, error)) (*tmdb.Page, error) {
	start := time.Now()
	result, err := call(ctx)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	return result, err
}

// cacheInBackground fires one detached goroutine per request batch. Each
// write is independent: failures are logged and counted, never propagated,
// and the HTTP response is never delayed by them.
func (mc *MovieController) cacheInBackground(results []tmdb.Movie, limit int) {
	if len(results) == 0 {
		return
	}
	if len(results) > limit {
		results = results[:limit]
	}
	batch := make([]tmdb.Movie, len(results))
	copy(batch, results)

	go func() {
		batchID := uuid.NewString()
		for _, movie := range batch {
			if err := mc.cache.Upsert(movie); err != nil {
				metrics.MovieCacheWritesTotal.WithLabelValues("error").Inc()
				mc.log.Warn("movie cache write failed",
					slog.String("batch", batchID),
					slog.Int("movieID", movie.ID),
					slog.String("error", err.Error()),
				)
				continue
			}
			metrics.MovieCacheWritesTotal.WithLabelValues("ok").Inc()
		}
	}()
}
