package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/services/health"
	"resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

// Routes is implemented by every feature handler.
type Routes interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries what NewRouter wires.
type RouterDeps struct {
	Config   config.Config
	Verifier auth.Verifier
	// IsAnalysisRequest selects the stricter ANALYSIS rate-limit group.
	IsAnalysisRequest func(*gin.Context) bool
	Limiter           *middleware.RateLimiter
	Health            *health.Service
	Handlers          []Routes
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigins),
		middleware.Auth(deps.Verifier),
		middleware.RateLimit(rateLimitConfig(deps)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		body, ok := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, body)
	})
	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	cfg := deps.Config
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		Limiter:      deps.Limiter,
		GroupFor: func(c *gin.Context) string {
			if deps.IsAnalysisRequest != nil && deps.IsAnalysisRequest(c) {
				return "ANALYSIS"
			}
			if c.FullPath() == "/metrics" || c.FullPath() == "/api/v1/health" {
				return "OPS"
			}
			return "DEFAULT"
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":  {Rate: cfg.RateLimitDefaultRPS, Burst: burstFor(cfg.RateLimitDefaultRPS * 2)},
			"ANALYSIS": {Rate: cfg.RateLimitAnalysisRPM / 60, Burst: burstFor(cfg.RateLimitAnalysisRPM / 3)},
		},
	}
}

func burstFor(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
