package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ai-interviewer/internal/agent"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

// respondError maps the error taxonomy onto HTTP statuses and user-facing
// messages. Raw upstream errors are logged by the services; the client only
// ever sees these messages.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, agent.ErrEmptyMessage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User message cannot be empty",
		})
	case errors.Is(err, agent.ErrRunEnded):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "This interview run has ended. Start a new run to continue practicing.",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	case errors.Is(err, agent.ErrUpstreamOverloaded):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "The interviewer is overloaded right now. Please retry in a moment.",
		})
	case errors.Is(err, agent.ErrUpstreamQuota):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "The AI quota has been exhausted. Please try again later.",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Something went wrong. Please try again.",
		})
	}
}
