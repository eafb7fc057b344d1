package routes

import (
	"todographql/internal/adapter/http/handler"
	"todographql/internal/adapter/http/middleware"
	"todographql/internal/core/telemetry"
	"todographql/pkg/config"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	GraphQLHandler *handler.GraphQLHandler
	HealthHandler  *handler.HealthHandler
}

func SetupRouter(handlers HandlersConfig, cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.Logger, rateLimiter *config.RateLimiter) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	middleware.SetupGinMiddleware(router, cfg, metrics, logger, rateLimiter)

	setupRoutes(router, handlers)

	return router
}

// SetupRouterForTests skips telemetry, HTTPS and rate limiting.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.CORSMiddleware())

	setupRoutes(router, handlers)

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Health)
	}

	if handlers.GraphQLHandler != nil {
		router.POST("/graphql", handlers.GraphQLHandler.Query)
		router.GET("/graphql", handlers.GraphQLHandler.QueryString)
	}
}
