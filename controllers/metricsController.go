package controllers

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"movieapp-backend/metrics"
	"movieapp-backend/middlewares"
	"movieapp-backend/models"
	"movieapp-backend/tmdb"
)

// How many trending entries a single read returns.
const trendingLimit = 5

// SearchMetrics is the slice of the metrics store the endpoints need.
type SearchMetrics interface {
	TopN(n int) ([]models.SearchMetric, error)
	IncrementOrCreate(searchTerm string, posterURL *string, movieID *int) (created bool, err error)
}

// MetricsController exposes the search-frequency store over HTTP.
type MetricsController struct {
	store SearchMetrics
	log   *slog.Logger
}

func NewMetricsController(store SearchMetrics, log *slog.Logger) *MetricsController {
	return &MetricsController{store: store, log: log}
}

// TrendingEntry is one row of the trending response.
type TrendingEntry struct {
	ID         string  `json:"$id"`
	SearchTerm string  `json:"searchTerm"`
	Count      int     `json:"count"`
	PosterURL  *string `json:"poster_url"`
	MovieID    *int    `json:"movie_id"`
}

// Trending handles GET /api/metrics/trending.
func (mc *MetricsController) Trending(c *fiber.Ctx) error {
	rows, err := mc.store.TopN(trendingLimit)
	if err != nil {
		mc.log.Error("trending read failed", slog.String("error", err.Error()))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get trending searches")
	}

	documents := make([]TrendingEntry, 0, len(rows))
	for _, row := range rows {
		documents = append(documents, TrendingEntry{
			ID:         strconv.FormatUint(uint64(row.ID), 10),
			SearchTerm: row.SearchTerm,
			Count:      row.Count,
			PosterURL:  row.PosterURL,
			MovieID:    row.MovieID,
		})
	}

	return c.JSON(fiber.Map{"documents": documents})
}

type recordSearchInput struct {
	SearchTerm string      `json:"searchTerm" validate:"required"`
	Movie      *tmdb.Movie `json:"movie"`
}

// RecordSearch handles POST /api/metrics/search. It increments the counter
// for the trimmed search term, creating the row on first sight, and tags it
// with the poster/movie of the supplied top result.
func (mc *MetricsController) RecordSearch(c *fiber.Ctx) error {
	var input recordSearchInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return fiber.NewError(fiber.StatusBadRequest, "Search term is required")
		}
		return err
	}

	term := strings.TrimSpace(input.SearchTerm)
	if term == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Search term is required")
	}

	var posterURL *string
	var movieID *int
	if input.Movie != nil {
		posterURL = input.Movie.PosterURL()
		movieID = &input.Movie.ID
	}

	created, err := mc.store.IncrementOrCreate(term, posterURL, movieID)
	if err != nil {
		mc.log.Error("search metric write failed", slog.String("term", term), slog.String("error", err.Error()))
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update search count")
	}

	body := fiber.Map{"ok": true, "message": "Search count updated"}
	if created {
		metrics.SearchMetricUpdatesTotal.WithLabelValues("created").Inc()
	} else {
		metrics.SearchMetricUpdatesTotal.WithLabelValues("updated").Inc()
		body["updated"] = true
	}
	return c.Status(fiber.StatusAccepted).JSON(body)
}
