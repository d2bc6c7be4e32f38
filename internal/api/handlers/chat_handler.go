package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/format"
	"github.com/orb-ai/backend/internal/resolver"
	"github.com/orb-ai/backend/internal/storage/sqlite"
	"github.com/orb-ai/backend/pkg/logger"
)

type ChatHandler struct {
	engine  *resolver.Engine
	records *sqlite.Client
}

func NewChatHandler(engine *resolver.Engine, records *sqlite.Client) *ChatHandler {
	return &ChatHandler{
		engine:  engine,
		records: records,
	}
}

func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"session_id"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.engine.Process(c.Context(), req.Message, req.SessionID)
	if err != nil {
		if errors.Is(err, resolver.ErrEmptyQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Message is required",
			})
		}
		logger.Error("Failed to process message", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	return c.JSON(fiber.Map{
		"session_id":  result.SessionID,
		"type":        result.Type,
		"entity":      result.Entity,
		"confidence":  result.Confidence,
		"response":    format.Render(result),
		"payload":     result.Payload,
		"suggestions": result.Suggestions,
	})
}

func (h *ChatHandler) GetHistory(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "session_id is required",
		})
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be a positive integer",
			})
		}
		limit = parsed
	}

	records, err := h.records.History(sessionID, limit)
	if err != nil {
		logger.Error("Failed to load turn history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load history",
		})
	}

	if records == nil {
		records = []sqlite.TurnRecord{}
	}

	return c.JSON(fiber.Map{
		"session_id": sessionID,
		"history":    records,
	})
}
