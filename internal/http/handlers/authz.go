package handlers

import (
	"strings"

	applog "swapi/internal/log"
	"swapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get("Authorization")
	parts := strings.Fields(h)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// RequireUser rejects requests without a valid bearer token and stores
// the authenticated user in Locals.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return fail(c, fiber.StatusUnauthorized, "authentication required")
		}
		u, err := auth.UserFromToken(tok)
		if err != nil {
			applog.Security(c, "access.denied", map[string]any{"reason": "bad_token"})
			return fail(c, fiber.StatusUnauthorized, "invalid or expired session")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

// OptionalUser attaches the user when a valid token is present but lets
// anonymous requests through (feeds annotate saved state when possible).
func OptionalUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearerToken(c); tok != "" {
			if u, err := auth.UserFromToken(tok); err == nil {
				c.Locals("user", u)
				c.Locals("userID", u.ID)
			}
		}
		return c.Next()
	}
}
