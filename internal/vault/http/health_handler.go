package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	vaultUseCase "github.com/allisson/envshare/internal/vault/usecase"
)

// HealthCheckHandler answers the public health check, sweeping expired secrets on the way.
type HealthCheckHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewHealthCheckHandler creates a new health check handler.
func NewHealthCheckHandler(vaultUseCase vaultUseCase.VaultUseCase, logger *slog.Logger) *HealthCheckHandler {
	return &HealthCheckHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// Handle runs a sweep.
// GET /v1/_healthcheck - Returns 200 when the sweep succeeds and 500 otherwise.
func (h *HealthCheckHandler) Handle(c *gin.Context) {
	count, err := h.vaultUseCase.SweepExpired(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to delete expired secrets", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "swept": count})
}
