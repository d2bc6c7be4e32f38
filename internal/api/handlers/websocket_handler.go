package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/orb-ai/backend/internal/format"
	"github.com/orb-ai/backend/internal/resolver"
	"github.com/orb-ai/backend/pkg/logger"
)

type WebSocketHandler struct {
	engine *resolver.Engine
}

func NewWebSocketHandler(engine *resolver.Engine) *WebSocketHandler {
	return &WebSocketHandler{
		engine: engine,
	}
}

// HandleConnection runs the read loop for one chat client. Each message
// resolves a query in the client's session; the session id is established
// on the first turn and echoed back with every answer.
func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("WebSocket connection established")

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			SessionID string `json:"session_id"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			logger.Error("Failed to read WebSocket message", zap.Error(err))
			break
		}

		if msg.Type != "chat" {
			continue
		}

		result, err := h.engine.Process(context.Background(), msg.Content, msg.SessionID)
		if err != nil {
			if errors.Is(err, resolver.ErrEmptyQuery) {
				h.sendError(c, "Message is required")
				continue
			}
			logger.Error("Failed to process WebSocket message", zap.Error(err))
			h.sendError(c, "Failed to process message")
			continue
		}

		if err := c.WriteJSON(map[string]interface{}{
			"type":        "answer",
			"session_id":  result.SessionID,
			"result_type": result.Type,
			"entity":      result.Entity,
			"confidence":  result.Confidence,
			"response":    format.Render(result),
			"suggestions": result.Suggestions,
		}); err != nil {
			logger.Error("Failed to write WebSocket message", zap.Error(err))
			break
		}
	}
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	msg := map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	}

	if err := c.WriteJSON(msg); err != nil {
		logger.Error("Failed to send error message", zap.Error(err))
	}
}
