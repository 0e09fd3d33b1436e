package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger emits one structured line per request after the handler chain has
// finished, carrying the correlation ID when one is set
func Logger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestLogger := logger
		if id := GetCorrelationID(c); id != "" {
			requestLogger = logger.With("correlation_id", id)
		}

		c.Next()

		fullPath := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			fullPath += "?" + q
		}

		requestLogger.Info("HTTP request",
			"method", c.Request.Method,
			"path", fullPath,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		)
	}
}
