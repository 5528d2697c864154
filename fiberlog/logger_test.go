package fiberlog

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	buf := new(bytes.Buffer)
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	var recorded []string
	app := fiber.New()
	app.Use(New(Config{
		Logger: logger,
		Tags:   []string{TagMethod, TagRoute, TagStatus, RequestID},
		OnRequest: func(method, route string, status int, latencySeconds float64) {
			recorded = append(recorded, method+" "+route)
		},
	}))
	app.Get("/event/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	t.Run("request id from header", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest("GET", "/event/5", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, "req-1", resp.Header.Get(RequestIDHeader))

		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "warning", entry["level"])
		require.Equal(t, "/event/:id", entry[TagRoute])
		require.Equal(t, "req-1", entry[RequestID])
		require.Equal(t, float64(404), entry[TagStatus])
	})

	t.Run("request id generated", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/event/6", nil))
		require.NoError(t, err)
		require.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})

	require.Equal(t, []string{"GET /event/:id", "GET /event/:id"}, recorded)
}
