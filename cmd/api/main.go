package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "todographql/internal/adapter/http"
	telemetryAdapter "todographql/internal/adapter/telemetry"
	"todographql/internal/core/port"
	"todographql/internal/core/telemetry"
	"todographql/pkg/config"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	logger, err := config.NewLogger(cfg.ServiceName, cfg.LokiURL)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	tel, err := telemetryAdapter.NewContainer(ctx, telemetryAdapter.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		ExportTraces:   cfg.TelemetryEnabled,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	}, logger.Zap())
	if err != nil {
		logger.Zap().Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Zap().Error("Telemetry shutdown failed", zap.Error(err))
		}
	}()

	tel.ServeMetrics()
	tel.AppMetrics.StartSystemMetrics(ctx)

	var probe port.Telemetry = telemetry.NewNoOpProbe()
	if cfg.TelemetryEnabled {
		probe = tel.NewTelemetryProbe()
	}

	container, err := httpAdapter.NewContainer(ctx, cfg, probe, tel.AppMetrics, logger)
	if err != nil {
		logger.Zap().Fatal("Failed to initialize store", zap.String("store", cfg.Store), zap.Error(err))
	}

	rateLimiter := newRateLimiter(cfg, tel.AppMetrics, logger)

	srv := httpAdapter.NewServer(cfg, container, tel.AppMetrics, logger, rateLimiter)

	logger.Zap().Info("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.Store),
		zap.Bool("rate_limit_enabled", cfg.RateLimitEnabled),
		zap.Bool("https_enforced", cfg.EnforceHTTPS),
		zap.Bool("expose_error_details", cfg.ExposeErrorDetails))

	if err := httpAdapter.Serve(ctx, srv, container, logger); err != nil {
		logger.Zap().Error("Server stopped with error", zap.Error(err))
	}
}

func newRateLimiter(cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.Logger) *config.RateLimiter {
	store := config.NewMemoryRateLimitStore()

	if cfg.RedisURL != "" {
		client, err := config.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Zap().Warn("Falling back to in-memory rate limiting", zap.Error(err))
		} else {
			store = config.NewRedisRateLimitStore(client)
		}
	}

	return config.NewRateLimiter(store, cfg.RateLimitConfigs, logger.Zap(), metrics)
}
