// Package http assembles the gin route tree and the HTTP server for the
// ChemNomen API.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/ChemNomen/internal/interfaces/http/handlers"
	"github.com/turtacn/ChemNomen/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and cross-cutting dependencies that
// make up the route tree.  Nil middleware dependencies disable the
// corresponding layer.
type RouterConfig struct {
	NamingHandler *handlers.NamingHandler
	HealthHandler *handlers.HealthHandler

	Logger    logging.Logger
	Metrics   *prometheus.AppMetrics
	Collector prometheus.MetricsCollector

	CORS      *middleware.CORSConfig
	RateLimit middleware.RateLimiter
	RateCfg   middleware.RateLimitConfig

	Mode string
}

// NewRouter builds the complete gin engine: recovery, request IDs, CORS,
// logging, rate limiting, and metrics around the probe and API v1 routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	switch cfg.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.RateLimit != nil {
		r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateCfg))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	api := r.Group("/api/v1")
	if cfg.NamingHandler != nil {
		cfg.NamingHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COMMON_005",
				"message": "route not found",
			},
		})
	})

	return r
}
