package handler

import (
	"smart-inventory-api/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// fail maps a service error to an HTTP response with a {message} body.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"message": apperr.Message(err)})
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation, apperr.Conflict:
		return fiber.StatusBadRequest
	case apperr.Forbidden:
		return fiber.StatusForbidden
	case apperr.NotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
