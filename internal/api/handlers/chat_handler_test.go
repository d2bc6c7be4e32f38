package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orb-ai/backend/internal/storage/sqlite"
)

func newHistoryApp(t *testing.T) (*fiber.App, *sqlite.Client) {
	t.Helper()

	records, err := sqlite.NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, records.InitSchema())
	t.Cleanup(func() { records.Close() })

	handler := NewChatHandler(nil, records)
	app := fiber.New()
	app.Get("/api/v1/chat/history", handler.GetHistory)
	return app, records
}

func TestGetHistory(t *testing.T) {
	app, records := newHistoryApp(t)

	records.InsertTurn(&sqlite.TurnRecord{
		SessionID:  "s1",
		QueryText:  "where is tech park",
		ResultType: "location",
		Path:       "direct",
		Confidence: 1.0,
		CreatedAt:  time.Now(),
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/chat/history?session_id=s1", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		SessionID string              `json:"session_id"`
		History   []sqlite.TurnRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "s1", payload.SessionID)
	require.Len(t, payload.History, 1)
	assert.Equal(t, "where is tech park", payload.History[0].QueryText)
}

func TestGetHistory_RequiresSessionID(t *testing.T) {
	app, _ := newHistoryApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/chat/history", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetHistory_UnknownSessionIsEmptyList(t *testing.T) {
	app, _ := newHistoryApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/chat/history?session_id=nope", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		History []sqlite.TurnRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.NotNil(t, payload.History)
	assert.Empty(t, payload.History)
}
