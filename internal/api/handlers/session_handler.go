package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/session"
	"github.com/orb-ai/backend/pkg/logger"
)

type SessionHandler struct {
	sessions *session.Store
}

func NewSessionHandler(sessions *session.Store) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	id, err := h.sessions.Create("")
	if err != nil {
		logger.Error("Failed to create session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": id,
	})
}

func (h *SessionHandler) GetSummary(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if !h.sessions.Exists(sessionID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	return c.JSON(h.sessions.Summary(sessionID))
}

func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if !h.sessions.Exists(sessionID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	h.sessions.Delete(sessionID)
	return c.SendStatus(fiber.StatusNoContent)
}
