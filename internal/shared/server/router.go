package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nac-advisor/internal/decisions"
	"nac-advisor/internal/library"
	"nac-advisor/internal/llm"
	"nac-advisor/internal/services/health"
	"nac-advisor/internal/shared/config"
	"nac-advisor/internal/shared/metrics"
	"nac-advisor/internal/shared/server/middleware"
	"nac-advisor/internal/shared/server/respond"
	"nac-advisor/internal/usage"
)

const (
	rateLimitGroupAI      = "AI"
	rateLimitGroupDefault = "DEFAULT"

	aiPathPrefix = "/api/v1/ai/"
)

// RouterDeps carries the handlers mounted under /api/v1. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	DecisionHandler *decisions.Handler
	LibraryHandler  *library.Handler
	AIHandler       *llm.Handler
	UsageHandler    *usage.Handler
	RateLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.ClientID(),
		middleware.Logging(),
		middleware.Recovery(aiPathPrefix),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: rateLimitGroupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.RateLimiter,
			Rules: map[string]middleware.RateLimitRule{
				rateLimitGroupAI: {Rate: deps.Config.AIRateLimitRPS, Burst: deps.Config.AIRateLimitBurst},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	if deps.DecisionHandler != nil {
		deps.DecisionHandler.RegisterRoutes(api)
	}
	if deps.LibraryHandler != nil {
		deps.LibraryHandler.RegisterRoutes(api)
	}
	if deps.AIHandler != nil {
		deps.AIHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup puts completion calls in the AI bucket. Other routes, including
// the usage report, are not limited.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && strings.HasPrefix(c.FullPath(), aiPathPrefix) {
		return rateLimitGroupAI
	}
	return rateLimitGroupDefault
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
