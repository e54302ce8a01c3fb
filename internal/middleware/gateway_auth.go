package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sarabsinghsaluja/moodboard-agent/pkg/response"
)

// GatewayAuthMiddleware reads user identity from X-User-* headers set by an
// authenticating reverse proxy (e.g. Traefik ForwardAuth) and populates the
// Fiber context locals. Used instead of local JWT verification when the
// service runs behind such a gateway.
func GatewayAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-Id")
		if userID == "" {
			return response.Unauthorized(c, "Missing user identity headers")
		}

		c.Locals("userId", userID)
		c.Locals("email", c.Get("X-User-Email"))

		return c.Next()
	}
}
