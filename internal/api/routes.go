package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/voxstream/voxstream-backend/internal/api/handlers"
	"github.com/voxstream/voxstream-backend/internal/api/middleware"
	"github.com/voxstream/voxstream-backend/internal/auth"
	"github.com/voxstream/voxstream-backend/internal/services"
)

// SetupRoutes configures all API routes. jwtService may be nil, disabling
// authentication.
func SetupRoutes(app *fiber.App, svc *services.Services, jwtService *auth.JWTService) {
	// API routes
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "voxstream-backend",
			"ready":   svc.Persist.Ready(),
		})
	})

	api.Use(middleware.TokenRequired(jwtService))

	// Projection state and explicit flush
	api.Get("/state", handlers.GetState(svc))
	api.Post("/flush", handlers.FlushNow(svc))

	// Session management
	api.Get("/sessions", handlers.GetSessions(svc))
	api.Post("/sessions", handlers.CreateSession(svc))
	api.Post("/sessions/:id/activate", handlers.ActivateSession(svc))
	api.Post("/sessions/:id/summary", handlers.SummarizeSession(svc))
	api.Delete("/sessions/:id", handlers.DeleteSession(svc))

	// WebSocket upgrade gate; tokens arrive as a query parameter
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		if jwtService != nil {
			token := c.Query("token")
			if token == "" {
				token = c.Get("Authorization")
				if len(token) > 7 && token[:7] == "Bearer " {
					token = token[7:]
				}
			}

			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authentication required for WebSocket",
				})
			}
			if _, err := jwtService.ValidateToken(token); err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid token",
				})
			}
		}

		return c.Next()
	})

	app.Get("/ws/live", websocket.New(handlers.LiveSocket(svc)))
}
