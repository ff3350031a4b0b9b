package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jjenkins/whitehall/internal/model"
	"github.com/jjenkins/whitehall/internal/queue"
	"github.com/jjenkins/whitehall/internal/service"
)

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFoundLocally):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInvalidEvent),
		errors.Is(err, service.ErrValidationFailure),
		errors.Is(err, queue.ErrInvalidJob):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrRemoteTransient):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, service.ErrRemoteRejection), errors.Is(err, service.ErrNotFound):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
