package config

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"todographql/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

func newTestRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.POST("/graphql", func(c *gin.Context) {
		c.JSON(200, gin.H{"data": nil})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(nil, nil, nil, nil)

	Expect(rl.store).ToNot(BeNil())
	Expect(rl.logger).ToNot(BeNil())
	Expect(rl.config).To(HaveKey("default"))
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(NewMemoryRateLimitStore(), GetDefaultConfig().RateLimitConfigs, zap.NewNop(), nil)
	router := newTestRouter(rl)

	expectedRemaining := []int{99, 98, 97, 96, 95}

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query":"{ todos { id } }"}`))
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("100"))
		Expect(w.Header().Get("X-RateLimit-Remaining")).To(Equal(strconv.Itoa(expectedRemaining[i])))
		Expect(w.Header().Get("X-RateLimit-Reset")).ToNot(BeEmpty())
	}
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)
	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(NewMemoryRateLimitStore(), nil, zap.NewNop(), metrics)
	router := newTestRouter(rl)

	// default is 60 requests per minute
	for i := 0; i < 65; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		if i < 60 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
			Expect(w.Body.String()).To(ContainSubstring("Rate limit exceeded"))
		}
	}
}

func TestRateLimitMiddleware_KeysByClientIP(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(NewMemoryRateLimitStore(), map[string]RateLimitConfig{
		"POST /graphql": {Requests: 1, Window: time.Minute},
	}, zap.NewNop(), nil)
	router := newTestRouter(rl)

	send := func(ip string) int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/graphql", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		router.ServeHTTP(w, req)
		return w.Code
	}

	Expect(send("1.1.1.1")).To(Equal(200))
	Expect(send("1.1.1.1")).To(Equal(429))
	Expect(send("2.2.2.2")).To(Equal(200))
}

func TestRateLimitMiddleware_WindowReset(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(NewMemoryRateLimitStore(), map[string]RateLimitConfig{
		"GET /health": {Requests: 2, Window: 50 * time.Millisecond},
	}, zap.NewNop(), nil)
	router := newTestRouter(rl)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		router.ServeHTTP(w, req)

		if i < 2 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
		}
	}

	time.Sleep(100 * time.Millisecond)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))
}

func TestRateLimitMiddleware_RecordsMetrics(t *testing.T) {
	RegisterTestingT(t)
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)
	rl := NewRateLimiter(NewMemoryRateLimitStore(), map[string]RateLimitConfig{
		"POST /graphql": {Requests: 1, Window: time.Minute},
	}, zap.NewNop(), metrics)
	router := newTestRouter(rl)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/graphql", nil)
		router.ServeHTTP(w, req)
	}

	Expect(testutil.GatherAndCount(registry, "rate_limit_hits_total")).To(Equal(1))
	Expect(testutil.GatherAndCount(registry, "rate_limit_allowed_total")).To(Equal(1))
}

func TestRateLimiterGetStats(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(nil, GetDefaultConfig().RateLimitConfigs, nil, nil)

	stats := rl.GetStats()
	Expect(stats["active_entries"]).To(Equal(0))
	Expect(stats["configs"]).To(Equal(3))
}

func TestRateLimiterSetConfig(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(nil, nil, nil, nil)

	rl.SetConfig("/custom", RateLimitConfig{Requests: 5, Window: time.Minute})

	Expect(rl.configFor("GET /custom", "/custom").Requests).To(Equal(5))
	Expect(rl.configFor("GET /other", "/other").Requests).To(Equal(60))
}

func TestRateLimitMiddleware_NoDoubleCounting(t *testing.T) {
	RegisterTestingT(t)
	rl := NewRateLimiter(NewMemoryRateLimitStore(), map[string]RateLimitConfig{
		"POST /graphql": {Requests: 20, Window: time.Minute},
	}, zap.NewNop(), nil)
	router := newTestRouter(rl)

	numRequests := 10
	results := make([]int, numRequests)
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		index := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/graphql", nil)
			router.ServeHTTP(w, req)

			remaining, _ := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
			results[index] = remaining
		}()
	}

	wg.Wait()

	expectedRemaining := []int{19, 18, 17, 16, 15, 14, 13, 12, 11, 10}
	sort.Ints(results)
	sort.Ints(expectedRemaining)

	Expect(results).To(Equal(expectedRemaining))
}

func TestNewRedisClient(t *testing.T) {
	RegisterTestingT(t)

	client, err := NewRedisClient("redis://localhost:6379/1")
	Expect(err).ToNot(HaveOccurred())
	Expect(client.Options().Addr).To(Equal("localhost:6379"))
	Expect(client.Options().DB).To(Equal(1))
	Expect(client.Close()).To(Succeed())

	_, err = NewRedisClient("://bad")
	Expect(err).To(HaveOccurred())
}
