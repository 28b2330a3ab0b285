package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIDKey = "clientId"

// ClientID stores the caller-supplied X-Client-Id header in context. Requests
// without the header are still served; they are keyed by IP where a principal is needed.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader("X-Client-Id")); id != "" {
			c.Set(clientIDKey, id)
		}
		c.Next()
	}
}

// ClientIDFromContext fetches the client ID set by the ClientID middleware.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(clientIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
