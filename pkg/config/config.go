package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig general application configurations
type AppConfig struct {
	ServiceName    string
	ServiceVersion string
	Port           string
	Environment    string

	// Store
	Store   string
	MongoDB MongoConfig

	// Telemetry
	TelemetryEnabled bool
	MetricsPort      string
	OTLPEndpoint     string
	LokiURL          string

	// Rate Limiting
	RateLimitEnabled bool
	RateLimitConfigs map[string]RateLimitConfig
	RedisURL         string

	// HTTPS Enforcement
	EnforceHTTPS bool

	// Mutation messages carry the underlying error text
	ExposeErrorDetails bool
}

type MongoConfig struct {
	Host string
	Port string
	Name string
	URI  string
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *AppConfig {
	return &AppConfig{
		ServiceName:    "todographql",
		ServiceVersion: "1.0.0",
		Port:           "8080",
		Environment:    "development",
		Store:          StoreMongo,
		MongoDB: MongoConfig{
			Host: "localhost",
			Port: "27017",
			Name: "todo_db",
		},
		TelemetryEnabled: false,
		MetricsPort:      "9091",
		OTLPEndpoint:     "localhost:4317",
		RateLimitEnabled: true,
		RateLimitConfigs: map[string]RateLimitConfig{
			"POST /graphql": {
				Requests: 100,
				Window:   time.Minute,
			},
			"GET /graphql": {
				Requests: 100,
				Window:   time.Minute,
			},
			"default": {
				Requests: 60,
				Window:   time.Minute,
			},
		},
		EnforceHTTPS:       false,
		ExposeErrorDetails: true,
	}
}

// Load reads the configuration from the environment on top of the defaults.
func Load() *AppConfig {
	config := GetDefaultConfig()

	config.Port = getEnv("PORT", config.Port)
	config.Store = strings.ToLower(getEnv("TODO_STORE", config.Store))

	if os.Getenv("GIN_MODE") == "release" {
		config.Environment = "production"
		config.EnforceHTTPS = true
		config.ExposeErrorDetails = false
	}

	config.Environment = getEnv("APP_ENV", config.Environment)

	config.MongoDB.Host = getEnv("MONGODB_HOST", config.MongoDB.Host)
	config.MongoDB.Port = getEnv("MONGODB_PORT", config.MongoDB.Port)
	config.MongoDB.Name = getEnv("MONGODB_NAME", config.MongoDB.Name)
	config.MongoDB.URI = getEnv("MONGODB_URI", config.MongoDB.URI)

	config.TelemetryEnabled = getEnvBool("TELEMETRY_ENABLED", config.TelemetryEnabled)
	config.MetricsPort = getEnv("METRICS_PORT", config.MetricsPort)
	config.OTLPEndpoint = getEnv("OTLP_ENDPOINT", config.OTLPEndpoint)
	config.LokiURL = getEnv("LOKI_URL", config.LokiURL)

	config.RateLimitEnabled = getEnvBool("RATE_LIMIT_ENABLED", config.RateLimitEnabled)
	config.RedisURL = getEnv("REDIS_URL", config.RedisURL)

	if requests := getEnvInt("RATE_LIMIT_REQUESTS", 0); requests > 0 {
		for key, rl := range config.RateLimitConfigs {
			rl.Requests = requests
			config.RateLimitConfigs[key] = rl
		}
	}

	config.EnforceHTTPS = getEnvBool("ENFORCE_HTTPS", config.EnforceHTTPS)
	config.ExposeErrorDetails = getEnvBool("EXPOSE_ERROR_DETAILS", config.ExposeErrorDetails)

	return config
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))

	if err != nil {
		return fallback
	}

	return value
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))

	if err != nil {
		return fallback
	}

	return value
}
