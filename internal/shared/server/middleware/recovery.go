package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 with the standard error body.
// The panic value and stack go to the log only.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			route := c.FullPath()
			metrics.IncPanic(route)
			telemetry.Error("http.panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"user_id":    UserIDFromContext(c),
				"method":     c.Request.Method,
				"route":      route,
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
			c.Abort()
		}()
		c.Next()
	}
}
