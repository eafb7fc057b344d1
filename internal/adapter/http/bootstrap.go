package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"todographql/internal/adapter/http/routes"
	"todographql/internal/core/telemetry"
	"todographql/pkg/config"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewServer builds the HTTP server for cfg without starting it.
func NewServer(cfg *config.AppConfig, container *Container, metrics *telemetry.AppMetrics, logger *config.Logger, rateLimiter *config.RateLimiter) *http.Server {
	router := routes.SetupRouter(routes.HandlersConfig{
		GraphQLHandler: container.GraphQLHandler,
		HealthHandler:  container.HealthHandler,
	}, cfg, metrics, logger, rateLimiter)

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

// Serve runs srv until ctx is cancelled, then drains in-flight requests and
// closes the store.
func Serve(ctx context.Context, srv *http.Server, container *Container, logger *config.Logger) error {
	errCh := make(chan error, 1)

	go func() {
		logger.Zap().Info("Server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Zap().Error("Server failed to start", zap.Error(err))
			_ = container.Close(context.Background())
			return err
		}
	case <-ctx.Done():
	}

	logger.Zap().Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return errors.Join(
		srv.Shutdown(shutdownCtx),
		container.Close(shutdownCtx),
	)
}
