package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voxstream/voxstream-backend/internal/persist"
	"github.com/voxstream/voxstream-backend/internal/services"
)

// GetState returns the flat projection snapshot plus the raw active id
func GetState(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ready":           svc.Persist.Ready(),
			"activeSessionId": svc.Persist.ActiveSessionID(),
			"display":         svc.Display.Snapshot(),
		})
	}
}

// FlushNow forces a flush with an explicit reason, bypassing the dirty and
// fingerprint gates
func FlushNow(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := struct {
			Reason string `json:"reason"`
		}{}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid request body",
				})
			}
		}

		reason := persist.ReasonManual
		switch req.Reason {
		case "", "manual":
		case "stop":
			reason = persist.ReasonStop
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown flush reason",
			})
		}

		if err := svc.Persist.Flush(c.Context(), reason); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "Flushed",
			"state":   svc.Display.Snapshot(),
		})
	}
}
