package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsespark/engram/pkg/auth"
)

// identityKey is the fiber locals key holding the resolved identity.
const identityKey = "identity"

// requireIdentity extracts the bearer credential, resolves it, and stores the
// identity for the handler. Requests without a resolvable credential never
// reach a handler.
func (s *Server) requireIdentity(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "missing bearer credential"})
	}

	identity, err := s.resolver.Resolve(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(errorResponse{Error: "invalid or expired credential"})
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// identityFrom returns the identity stored by requireIdentity.
func identityFrom(c *fiber.Ctx) *auth.Identity {
	identity, _ := c.Locals(identityKey).(*auth.Identity)
	return identity
}
