package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header and context keys for request correlation
const (
	CorrelationIDHeader = "X-Correlation-ID"
	CorrelationIDKey    = "correlation_id"
)

// CorrelationID tags every request with an identifier, minting one when the
// caller did not supply it. The ID is echoed in the response header and kept
// on the context for handlers and the request logger.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(CorrelationIDHeader, id)
		c.Set(CorrelationIDKey, id)

		c.Next()
	}
}

// GetCorrelationID returns the request's correlation ID, or "" when the
// middleware did not run
func GetCorrelationID(c *gin.Context) string {
	v, ok := c.Get(CorrelationIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
