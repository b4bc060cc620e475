package http

import (
	"net/http"

	"github.com/cartribe/backend/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SetupRouter creates and configures the Gin router. metrics may be nil.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *IPRateLimiter, metrics http.Handler, logger zerolog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(LoggerMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	market := router.Group("/api/market")
	if limiter != nil {
		market.Use(RateLimitMiddleware(limiter))
	}
	{
		market.GET("/all", handler.AllListings)
		market.GET("/search", handler.SearchListings)
		market.GET("/listing/:id", handler.GetListing)
		market.GET("/test-api", handler.TestUpstream)
	}

	return router
}
