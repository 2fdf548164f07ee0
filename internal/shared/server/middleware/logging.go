package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
)

// Logging emits a structured log line and an HTTP metric per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, route, status)

		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             route,
			"status":            status,
			"status_transition": c.GetString("statusTransition"),
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"user_id":           UserIDFromContext(c),
			"analysis_id":       c.GetString("analysisId"),
			"application_id":    c.GetString("applicationId"),
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
