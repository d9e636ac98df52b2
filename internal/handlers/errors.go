package handlers

import (
	"errors"

	"shopsite/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusFromError maps the service failure kinds onto HTTP statuses.
// Anything unrecognized is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInsufficientStock), errors.Is(err, services.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrSignatureInvalid):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the standard error envelope for a failed service call.
func respondError(c *fiber.Ctx, message string, err error) error {
	return c.Status(statusFromError(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
