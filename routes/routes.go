package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"movieapp-backend/controllers"
	"movieapp-backend/middlewares"
)

// Deps bundles the controllers the router wires up.
type Deps struct {
	Movies  *controllers.MovieController
	Metrics *controllers.MetricsController
}

// Register wires all HTTP routes.
func Register(app *fiber.App, deps Deps) {
	app.Get("/health", controllers.HealthPlain)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/health", controllers.Health)

	movies := api.Group("/movies")
	movies.Get("/search", deps.Movies.Search)
	movies.Get("/discover", deps.Movies.Discover)

	metrics := api.Group("/metrics")
	metrics.Get("/trending", deps.Metrics.Trending)
	metrics.Post("/search", deps.Metrics.RecordSearch)

	// Anything unmatched is a 404 with the standard envelope.
	app.Use(middlewares.NotFound)
}
