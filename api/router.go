package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/docscrub/api/handler"
	"github.com/use-agent/docscrub/api/middleware"
	"github.com/use-agent/docscrub/cache"
	"github.com/use-agent/docscrub/cleaner"
	"github.com/use-agent/docscrub/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is outside auth so monitoring probes always work.
func NewRouter(cl *cleaner.Cleaner, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Server.Mode != gin.TestMode {
		r.Use(gin.Logger())
	}

	v1 := r.Group("/api/v1")

	// Health: no auth required.
	v1.GET("/health", handler.Health(cc, startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/clean", handler.Clean(cl, cc))
	protected.POST("/clean/batch", handler.PostBatch(cl, cc, cfg.Cleaner.BatchConcurrency))

	return r
}
