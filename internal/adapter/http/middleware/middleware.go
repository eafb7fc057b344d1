package middleware

import (
	"net/http"
	"strconv"
	"time"

	"todographql/internal/core/telemetry"
	"todographql/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func MetricsMiddleware(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// CORSMiddleware lets browser clients on any origin reach /graphql.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetupGinMiddleware installs the shared middleware chain. HTTPS redirects run
// before anything is traced or counted.
func SetupGinMiddleware(router *gin.Engine, cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.Logger, rateLimiter *config.RateLimiter) {
	router.Use(config.NewHTTPSEnforcer(cfg.EnforceHTTPS, logger.Zap()).HTTPSMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(CurrentMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware())

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	if cfg.RateLimitEnabled && rateLimiter != nil {
		router.Use(rateLimiter.RateLimitMiddleware())
	}
}
