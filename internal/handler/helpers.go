package handler

import (
	"errors"

	"go-stockledger/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// actorName pulls the authenticated user's display name from the JWT context
// (set by RequireAuth); it becomes changedBy/createdBy on audit entries.
func actorName(c *fiber.Ctx) string {
	if name, ok := c.Locals("user_name").(string); ok && name != "" {
		return name
	}
	return "system"
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrProductNotFound),
		errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, model.ErrCategoryNotFound),
		errors.Is(err, model.ErrExpenseNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrCategoryInUse),
		errors.Is(err, model.ErrConcurrentUpdate):
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
