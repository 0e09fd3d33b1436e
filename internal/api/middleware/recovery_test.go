package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("RecoversFromPanicAndLogs", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))

		router := gin.New()
		router.Use(CorrelationID())
		router.Use(Recovery(logger))
		router.GET("/panic_test", func(c *gin.Context) {
			panic("test panic")
		})

		correlationID := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/panic_test", nil)
		req.Header.Set(CorrelationIDHeader, correlationID)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))

		errField, ok := body["error"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "INTERNAL_SERVER_ERROR", errField["code"])
		assert.Equal(t, "An internal server error occurred", errField["message"])
		assert.Equal(t, correlationID, body["correlation_id"])

		line := buf.String()
		require.NotEmpty(t, line)
		assert.Contains(t, line, `"level":"ERROR"`)
		assert.Contains(t, line, `"msg":"Panic recovered"`)
		assert.Contains(t, line, `"error":"test panic"`)
		assert.Contains(t, line, `"stack":`)
		assert.Contains(t, line, `"path":"/panic_test"`)
		assert.Contains(t, line, `"method":"GET"`)
	})

	t.Run("NoPanicNoEffect", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		router := gin.New()
		router.Use(Recovery(logger))
		router.GET("/no_panic", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/no_panic", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, buf.String())
	})
}
