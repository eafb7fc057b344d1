package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todographql/internal/core/telemetry"
	ct "todographql/pkg/context"
	"todographql/pkg/config"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCurrentMiddleware(t *testing.T) {
	RegisterTestingT(t)

	var seen string

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/health", func(c *gin.Context) {
		seen = ct.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("should generate a request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		Expect(seen).ToNot(BeEmpty())
		Expect(w.Header().Get(RequestIDHeader)).To(Equal(seen))
	})

	t.Run("should keep an incoming request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		router.ServeHTTP(w, req)

		Expect(seen).To(Equal("req-123"))
		Expect(w.Header().Get(RequestIDHeader)).To(Equal("req-123"))
	})
}

func TestCORSMiddleware(t *testing.T) {
	RegisterTestingT(t)

	router := gin.New()
	router.Use(CORSMiddleware())
	router.POST("/graphql", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/graphql", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusNoContent))
	Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/graphql", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
}

func TestSetupGinMiddleware(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)

	cfg := config.GetDefaultConfig()
	limiter := config.NewRateLimiter(nil, map[string]config.RateLimitConfig{
		"GET /health": {Requests: 1, Window: time.Minute},
	}, nil, metrics)

	router := gin.New()
	SetupGinMiddleware(router, cfg, metrics, config.NewNopLogger(), limiter)
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := []int{}
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	Expect(codes).To(Equal([]int{http.StatusOK, http.StatusTooManyRequests}))
	Expect(testutil.GatherAndCount(registry, "http_requests_total")).To(Equal(2))
}
