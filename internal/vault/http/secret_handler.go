// Package http provides the HTTP handlers of the secret vault.
// Tokens travel in the URL path; the handlers never log them.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/envshare/internal/httputil"
	customValidation "github.com/allisson/envshare/internal/validation"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
	"github.com/allisson/envshare/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/envshare/internal/vault/usecase"
)

// SecretHandler handles creating and revealing one-time secrets.
type SecretHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	logger       *slog.Logger
}

// NewSecretHandler creates a new secret handler.
func NewSecretHandler(vaultUseCase vaultUseCase.VaultUseCase, logger *slog.Logger) *SecretHandler {
	return &SecretHandler{
		vaultUseCase: vaultUseCase,
		logger:       logger,
	}
}

// CreateHandler seals a new secret.
// POST /v1/secret - Returns 201 Created with {"token": "..."}.
func (h *SecretHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateSecretRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	content := []byte(req.Content)
	defer vaultDomain.Zero(content)

	token, err := h.vaultUseCase.Create(c.Request.Context(), content, req.MaxReads, req.TTLDuration())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateSecretResponse{Token: token})
}

// RevealHandler spends one read of a secret and returns its content.
// GET /v1/secret/:token - Returns 200 OK. SECURITY: Plaintext is zeroed after the response.
func (h *SecretHandler) RevealHandler(c *gin.Context) {
	secret, err := h.vaultUseCase.Reveal(c.Request.Context(), c.Param("token"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer vaultDomain.Zero(secret.Plaintext)

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapSecretToRevealResponse(secret))
}
