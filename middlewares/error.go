package middlewares

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the error envelope every failure response uses.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewErrorHandler centralizes error responses. Known fiber errors keep
// their status and message; everything else becomes a sanitized 500, with
// the underlying cause included only outside production.
func NewErrorHandler(production bool, log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(ErrorBody{Error: ErrorDetail{Message: fe.Message}})
		}

		if _, ok := err.(validator.ValidationErrors); ok {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: ErrorDetail{Message: "validation failed"}})
		}

		log.Error("unhandled error", slog.String("path", c.Path()), slog.String("error", err.Error()))
		detail := ErrorDetail{Message: "Internal server error"}
		if !production {
			detail.Details = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{Error: detail})
	}
}

// NotFound handles any route the router did not match.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorBody{Error: ErrorDetail{Message: "Route not found"}})
}
