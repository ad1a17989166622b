package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/envshare/internal/apikey/domain"
	apikeyUsecaseMocks "github.com/allisson/envshare/internal/apikey/usecase/mocks"
	"github.com/allisson/envshare/internal/httputil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupAuthRouter(useCase *apikeyUsecaseMocks.MockAPIKeyUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(AuthenticationMiddleware(useCase, discardLogger()))
	router.GET("/protected", func(c *gin.Context) {
		keyHash, ok := GetAPIKeyHash(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"authenticated": ok, "hash": keyHash})
	})
	return router
}

func performRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var response httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_StoresKeyHash", func(t *testing.T) {
		useCase := &apikeyUsecaseMocks.MockAPIKeyUseCase{}
		useCase.On("Authenticate", mock.Anything, "raw-key").Return("hash-1", nil).Once()

		w := performRequest(setupAuthRouter(useCase), "Bearer raw-key")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"authenticated":true,"hash":"hash-1"}`, w.Body.String())
		useCase.AssertExpectations(t)
	})

	t.Run("Success_CaseInsensitiveScheme", func(t *testing.T) {
		useCase := &apikeyUsecaseMocks.MockAPIKeyUseCase{}
		useCase.On("Authenticate", mock.Anything, "raw-key").Return("hash-1", nil).Once()

		w := performRequest(setupAuthRouter(useCase), "bEaReR raw-key")

		assert.Equal(t, http.StatusOK, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_MissingHeader", func(t *testing.T) {
		useCase := &apikeyUsecaseMocks.MockAPIKeyUseCase{}

		w := performRequest(setupAuthRouter(useCase), "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized", decodeError(t, w).Error)
		useCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Error_WrongScheme", func(t *testing.T) {
		useCase := &apikeyUsecaseMocks.MockAPIKeyUseCase{}

		for _, header := range []string{"Basic dXNlcjpwYXNz", "Bearer", "Token abc"} {
			w := performRequest(setupAuthRouter(useCase), header)
			assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		}
		useCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Error_EmptyKey", func(t *testing.T) {
		useCase := &apikeyUsecaseMocks.MockAPIKeyUseCase{}
		useCase.On("Authenticate", mock.Anything, "").Return("", apikeyDomain.ErrMissingCredential).Once()

		w := performRequest(setupAuthRouter(useCase), "Bearer   ")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_UnknownKey", func(t *testing.T) {
		useCase := &apikeyUsecaseMocks.MockAPIKeyUseCase{}
		useCase.On("Authenticate", mock.Anything, "nope").Return("", apikeyDomain.ErrInvalidCredential).Once()

		w := performRequest(setupAuthRouter(useCase), "Bearer nope")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		useCase.AssertExpectations(t)
	})

	t.Run("Error_BackendFailure", func(t *testing.T) {
		useCase := &apikeyUsecaseMocks.MockAPIKeyUseCase{}
		backendErr := fmt.Errorf("%w: %v", apikeyDomain.ErrAuthBackend, errors.New("connection refused"))
		useCase.On("Authenticate", mock.Anything, "raw-key").Return("", backendErr).Once()

		w := performRequest(setupAuthRouter(useCase), "Bearer raw-key")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		response := decodeError(t, w)
		assert.Equal(t, "internal_error", response.Error)
		assert.NotContains(t, w.Body.String(), "connection refused")
		useCase.AssertExpectations(t)
	})
}
