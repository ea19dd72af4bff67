// Package middleware contains the gin middleware stack for the ChemNomen
// HTTP server: request IDs, logging, CORS, rate limiting, and metrics.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the request correlation ID.
const HeaderRequestID = "X-Request-ID"

// contextKeyRequestID is the gin context key holding the request ID.
const contextKeyRequestID = "request_id"

// RequestID returns middleware that propagates the client-supplied
// X-Request-ID header or generates a fresh UUID when absent.  The ID is
// stored on the gin context and echoed back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Writer.Header().Set(HeaderRequestID, id)
		c.Next()
	}
}

// RequestIDFromContext returns the correlation ID assigned to the request,
// or the empty string when the RequestID middleware is not installed.
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeyRequestID)
}
