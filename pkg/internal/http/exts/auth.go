package exts

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/skilllink/skilllink/pkg/internal/feed"
	"github.com/skilllink/skilllink/pkg/internal/services"
)

// AuthMiddleware resolves the bearer token into a session and stashes it in
// locals. Requests without a valid token pass through unauthenticated;
// handlers that require one call EnsureAuthenticated.
func AuthMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && len(token) > 0 {
		if sess, err := services.GetSession(token); err == nil {
			c.Locals("session", sess)
		}
	}

	return c.Next()
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("session").(*feed.Session); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return nil
}

// SessionFrom returns the request's session, or nil when unauthenticated.
func SessionFrom(c *fiber.Ctx) *feed.Session {
	if sess, ok := c.Locals("session").(*feed.Session); ok {
		return sess
	}
	return nil
}
