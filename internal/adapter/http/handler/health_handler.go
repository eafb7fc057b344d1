package handler

import (
	"context"
	"time"

	. "todographql/internal/adapter/http/helper"
	"todographql/internal/core/model/response"
	"todographql/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is implemented by stores that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store  string
	pinger Pinger
	Logger *config.Logger
}

// NewHealthHandler reports the store as healthy when pinger is nil.
func NewHealthHandler(store string, pinger Pinger, logger *config.Logger) *HealthHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &HealthHandler{
		store:  store,
		pinger: pinger,
		Logger: logger,
	}
}

func (h *HealthHandler) Health(c *gin.Context) {
	health := response.HealthResponse{
		Status: response.HealthStatusOK,
		Store:  h.store,
	}

	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			h.Logger.ErrorWithTrace(ctx, "Store ping failed", zap.String("store", h.store), zap.Error(err))
			health.Status = response.HealthStatusUnavailable
		}
	}

	SendHealth(c, health)
}
