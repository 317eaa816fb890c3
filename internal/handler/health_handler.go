package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/repository"
	"groupnet/memberhub/pkg/response"
)

const readinessTimeout = 2 * time.Second

type HealthHandler struct {
	pinger repository.Pinger
	logger *zap.Logger
}

func NewHealthHandler(pinger repository.Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, logger: logger}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// Readiness reports whether the backing store answers.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		response.ServiceUnavailable(c, "store unavailable")
		return
	}
	response.Success(c, gin.H{"status": "ready"})
}
