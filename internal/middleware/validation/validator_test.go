package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(Middleware(cfg))
	app.Post("/api/v1/chat", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, body, contentType string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestMiddleware_AcceptsValidChat(t *testing.T) {
	app := newTestApp(Config{})
	status := postJSON(t, app, `{"message":"where is tech park"}`, "application/json")
	assert.Equal(t, fiber.StatusOK, status)
}

func TestMiddleware_RejectsWrongContentType(t *testing.T) {
	app := newTestApp(Config{})
	status := postJSON(t, app, `{"message":"hi"}`, "text/plain")
	assert.Equal(t, fiber.StatusUnsupportedMediaType, status)
}

func TestMiddleware_RejectsMalformedJSON(t *testing.T) {
	app := newTestApp(Config{})
	status := postJSON(t, app, `{"message":`, "application/json")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMiddleware_RejectsMissingMessage(t *testing.T) {
	app := newTestApp(Config{})

	status := postJSON(t, app, `{"session_id":"abc"}`, "application/json")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status = postJSON(t, app, `{"message":"   "}`, "application/json")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestMiddleware_RejectsOversizedMessage(t *testing.T) {
	app := newTestApp(Config{MaxMessageLength: 10})
	status := postJSON(t, app, `{"message":"this message is longer than ten characters"}`, "application/json")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
