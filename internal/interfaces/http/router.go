// Package http wires the gin route tree and the HTTP server.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/rephind/rephind/internal/infrastructure/monitoring/logging"
	"github.com/rephind/rephind/internal/infrastructure/monitoring/prometheus"
	"github.com/rephind/rephind/internal/interfaces/http/handlers"
	"github.com/rephind/rephind/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies needed
// to build the complete route tree.
type RouterConfig struct {
	PatentHandler *handlers.PatentHandler
	HealthHandler *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.Metrics

	Mode         string // gin mode: "debug" | "release" | "test"
	AllowOrigins []string
}

// NewRouter constructs the route tree: global middleware, public probes,
// the metrics endpoint and the /api/v1 patent routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.AllowOrigins))
	if cfg.Logger != nil {
		router.Use(middleware.RequestLogger(cfg.Logger))
	}
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		router.GET("/healthz", cfg.HealthHandler.Liveness)
		router.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api/v1")
	{
		if cfg.PatentHandler != nil {
			patents := api.Group("/patents")
			{
				patents.POST("/search", cfg.PatentHandler.Search)
				patents.GET("/:id/claim", cfg.PatentHandler.GetClaim)
				patents.POST("/compare", cfg.PatentHandler.Compare)
				patents.POST("/upload", cfg.PatentHandler.Upload)
				patents.POST("/summarize", cfg.PatentHandler.Summarize)
			}
			api.GET("/corpus/stats", cfg.PatentHandler.Stats)
		}
	}

	return router
}
