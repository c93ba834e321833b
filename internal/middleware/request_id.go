package middleware

import (
	"permiso_backend/internal/logger"
	"permiso_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID assigns every request a correlation id, exposed in the
// X-Request-ID response header and attached to the request context so
// logger.FromContext picks it up.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(string(contextkeys.RequestIDKey), requestID)
		c.Header("X-Request-ID", requestID)

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
