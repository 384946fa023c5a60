package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/pulsespark/engram/pkg/engine"
	"github.com/pulsespark/engram/pkg/storage"
)

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the engine's error taxonomy onto HTTP status codes.
// Anything unclassified is an internal error, logged once here.
func (s *Server) writeError(c *fiber.Ctx, err error) error {
	var validation engine.ValidationError
	var forbidden engine.ForbiddenError
	var notFound storage.NotFoundError

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: validation.Error()})
	case errors.As(err, &forbidden):
		return c.Status(fiber.StatusForbidden).JSON(errorResponse{Error: forbidden.Error()})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{Error: "memory item not found"})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: "internal server error"})
	}
}
