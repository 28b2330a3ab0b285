package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"

	"nac-advisor/internal/shared/server/respond"
	"nac-advisor/internal/shared/telemetry"
)

// Recovery turns a panic into a 500. Paths under one of flatPrefixes get the
// single-string {"error": "..."} body their callers expect.
func Recovery(flatPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			}
			if id := ClientIDFromContext(c); id != "" {
				fields["client_id"] = id
			}
			telemetry.Error("panic", fields)

			for _, prefix := range flatPrefixes {
				if strings.HasPrefix(c.Request.URL.Path, prefix) {
					respond.Flat(c, http.StatusInternalServerError, "internal", "Unexpected server error")
					return
				}
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
