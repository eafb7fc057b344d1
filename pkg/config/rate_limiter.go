package config

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"todographql/internal/core/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitStore counts hits per key inside a fixed window.
type RateLimitStore interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, resetTime time.Time, err error)
	Len() int
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

type memoryRateLimitStore struct {
	cache *cache.Cache
	mutex sync.Mutex
}

func NewMemoryRateLimitStore() RateLimitStore {
	return &memoryRateLimitStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *memoryRateLimitStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Time, error) {
	now := time.Now()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if item, found := s.cache.Get(key); found {
		entry := item.(RateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= limit {
				return false, 0, entry.ResetTime, nil
			}

			entry.Count++
			s.cache.Set(key, entry, time.Until(entry.ResetTime))

			return true, limit - entry.Count, entry.ResetTime, nil
		}
	}

	resetTime := now.Add(window)
	s.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, window)

	return true, limit - 1, resetTime, nil
}

func (s *memoryRateLimitStore) Len() int {
	return s.cache.ItemCount()
}

type redisRateLimitStore struct {
	client *redis.Client
}

// NewRedisRateLimitStore shares counters between replicas through Redis.
func NewRedisRateLimitStore(client *redis.Client) RateLimitStore {
	return &redisRateLimitStore{client: client}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	return redis.NewClient(opts), nil
}

func (s *redisRateLimitStore) Hit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, time.Time, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	resetTime := time.Now().Add(window)
	if remaining := ttl.Val(); remaining > 0 {
		resetTime = time.Now().Add(remaining)
	}

	count := int(incr.Val())
	if count > limit {
		return false, 0, resetTime, nil
	}

	return true, limit - count, resetTime, nil
}

func (s *redisRateLimitStore) Len() int {
	return -1
}

type RateLimiter struct {
	store   RateLimitStore
	config  map[string]RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

func NewRateLimiter(store RateLimitStore, configs map[string]RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	if store == nil {
		store = NewMemoryRateLimitStore()
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	config := make(map[string]RateLimitConfig, len(configs)+1)
	config["default"] = RateLimitConfig{Requests: 60, Window: time.Minute}

	for key, value := range configs {
		config[key] = value
	}

	return &RateLimiter{
		store:   store,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path
		config := rl.configFor(methodPath, path)
		key := fmt.Sprintf("rate_limit:%s:%s", methodPath, clientIP(c))

		allowed, remaining, resetTime, err := rl.store.Hit(c.Request.Context(), key, config.Requests, config.Window)
		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.String("path", path),
				zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, "ip")
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, "ip")
		}

		c.Next()
	}
}

func (rl *RateLimiter) configFor(methodPath, path string) RateLimitConfig {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	if config, ok := rl.config[methodPath]; ok {
		return config
	}

	if config, ok := rl.config[path]; ok {
		return config
	}

	return rl.config["default"]
}

func (rl *RateLimiter) SetConfig(path string, config RateLimitConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.config[path] = config
}

func (rl *RateLimiter) GetStats() map[string]interface{} {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	return map[string]interface{}{
		"active_entries": rl.store.Len(),
		"configs":        len(rl.config),
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	if ip := c.ClientIP(); ip != "" {
		return ip
	}

	return "unknown"
}
