package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newLoggedRouter := func(buf *bytes.Buffer) *gin.Engine {
		logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
		router := gin.New()
		router.Use(CorrelationID())
		router.Use(Logger(logger))
		return router
	}

	t.Run("LogsRequestDetails", func(t *testing.T) {
		var buf bytes.Buffer
		router := newLoggedRouter(&buf)
		router.GET("/test_log", func(c *gin.Context) {
			c.String(http.StatusOK, "OK")
		})

		correlationID := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/test_log?param=value", nil)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set(CorrelationIDHeader, correlationID)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		line := buf.String()
		require.NotEmpty(t, line)
		assert.Contains(t, line, `"level":"INFO"`)
		assert.Contains(t, line, `"msg":"HTTP request"`)
		assert.Contains(t, line, `"method":"GET"`)
		assert.Contains(t, line, `"path":"/test_log?param=value"`)
		assert.Contains(t, line, `"status":200`)
		assert.Contains(t, line, `"latency":`)
		assert.Contains(t, line, `"client_ip":`)
		assert.Contains(t, line, `"user_agent":"test-agent"`)
		assert.Contains(t, line, `"correlation_id":"`+correlationID+`"`)
	})

	t.Run("IncludesGeneratedCorrelationID", func(t *testing.T) {
		var buf bytes.Buffer
		router := newLoggedRouter(&buf)
		router.POST("/another_log", func(c *gin.Context) {
			c.String(http.StatusCreated, "Created")
		})

		req := httptest.NewRequest(http.MethodPost, "/another_log", strings.NewReader("body"))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		line := buf.String()
		assert.Contains(t, line, `"msg":"HTTP request"`)
		assert.Contains(t, line, `"method":"POST"`)
		assert.Contains(t, line, `"path":"/another_log"`)
		assert.Contains(t, line, `"status":201`)
		assert.Contains(t, line, `"correlation_id":`)
	})
}
