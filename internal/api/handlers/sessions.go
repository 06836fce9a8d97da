package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/voxstream/voxstream-backend/internal/persist"
	"github.com/voxstream/voxstream-backend/internal/services"
)

// GetSessions returns all stored sessions, newest first
func GetSessions(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessions, err := svc.Persist.ListSessions(c.Context())
		if err != nil {
			if errors.Is(err, persist.ErrNotReady) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Persistence unavailable",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"sessions": sessions,
		})
	}
}

// CreateSession creates a new session
func CreateSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := struct {
			MakeActive *bool `json:"makeActive"`
		}{}

		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid request body",
				})
			}
		}

		makeActive := true
		if req.MakeActive != nil {
			makeActive = *req.MakeActive
		}

		id, err := svc.Persist.CreateSession(c.Context(), makeActive)
		if err != nil {
			if errors.Is(err, persist.ErrNotReady) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Persistence unavailable",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"id":     id,
			"active": makeActive,
		})
	}
}

// ActivateSession makes a session active and restores it into the live
// state
func ActivateSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("id")

		if err := svc.Persist.SetActiveSession(c.Context(), sessionID); err != nil {
			if errors.Is(err, persist.ErrNotReady) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Persistence unavailable",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		if err := svc.Persist.RestoreSession(c.Context(), sessionID); err != nil {
			if errors.Is(err, persist.ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "Session restored",
			"state":   svc.Display.Snapshot(),
		})
	}
}

// DeleteSession deletes a session; deleting the active one rolls over to a
// fresh active session
func DeleteSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("id")

		if err := svc.Persist.DeleteSession(c.Context(), sessionID); err != nil {
			if errors.Is(err, persist.ErrNotReady) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Persistence unavailable",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"message": "Session deleted successfully",
		})
	}
}

// SummarizeSession generates an LLM summary of a stored session transcript
func SummarizeSession(svc *services.Services) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Params("id")

		summary, err := svc.Summary.SummarizeSession(c.Context(), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSummaryDisabled):
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Summary generation not configured",
				})
			case errors.Is(err, persist.ErrSessionNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{
			"id":      sessionID,
			"summary": summary,
		})
	}
}
