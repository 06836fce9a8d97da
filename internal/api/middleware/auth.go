package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/voxstream/voxstream-backend/internal/auth"
)

// TokenRequired validates the bearer token on every request. A nil service
// disables authentication entirely.
func TokenRequired(jwtService *auth.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if jwtService == nil {
			return c.Next()
		}

		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		c.Locals("client", claims.Client)
		return c.Next()
	}
}

// extractToken looks in the Authorization header, then the token query
// parameter (WebSocket clients cannot always set headers).
func extractToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
