package main

import (
	"github.com/gin-gonic/gin"

	"github.com/TalineFS/Dashboards/internal/middleware"
	"github.com/TalineFS/Dashboards/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for the upload route (parsing is the expensive path)
	uploadLimiter := middleware.RateLimit(svc.cfg.Upload.RateRPS, svc.cfg.Upload.RateBurst)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "dashboards"})
	})

	// API routes
	api := r.Group("/api")
	{
		api.POST("/datasets", uploadLimiter, svc.datasetHandler.Upload)
		api.GET("/datasets/:id", svc.datasetHandler.Get)
		api.DELETE("/datasets/:id", svc.datasetHandler.Delete)

		api.GET("/datasets/:id/dashboard", svc.dashboardHandler.GetStats)
		api.GET("/datasets/:id/export", svc.dashboardHandler.Export)
	}
}
