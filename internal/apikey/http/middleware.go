package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apikeyDomain "github.com/allisson/envshare/internal/apikey/domain"
	apikeyUseCase "github.com/allisson/envshare/internal/apikey/usecase"
	"github.com/allisson/envshare/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware requires an "Authorization: Bearer <api key>" header.
//
// Missing, malformed and unknown keys are answered with 401. A failing key store is
// answered with 500. On success the key hash is stored in the request context.
func AuthenticationMiddleware(useCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apikeyDomain.ErrMissingCredential, logger)
			c.Abort()
			return
		}

		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apikeyDomain.ErrInvalidCredential, logger)
			c.Abort()
			return
		}

		rawKey := strings.TrimSpace(authHeader[len(bearerPrefix):])

		keyHash, err := useCase.Authenticate(c.Request.Context(), rawKey)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithAPIKeyHash(c.Request.Context(), keyHash))

		c.Next()
	}
}
