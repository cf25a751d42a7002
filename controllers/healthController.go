package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	serviceName    = "movie-app-backend"
	serviceVersion = "1.0.0"
)

// Health handles GET /api/health. It reflects process liveness only and
// must never depend on the database or the upstream API.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"version":   serviceVersion,
	})
}

// HealthPlain handles GET /health for load balancers that want plain text.
func HealthPlain(c *fiber.Ctx) error {
	return c.SendString("OK")
}
