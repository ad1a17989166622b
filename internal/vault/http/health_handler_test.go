package http

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHealthCheckHandler_Handle(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("SweepExpired", mock.Anything).Return(int64(5), nil).Once()

		w := doRequest(router, http.MethodGet, "/v1/_healthcheck", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy","swept":5}`, w.Body.String())
	})

	t.Run("Error_SweepFailure", func(t *testing.T) {
		router, mockUseCase := setupTestRouter(t)

		mockUseCase.On("SweepExpired", mock.Anything).Return(int64(0), errors.New("db down")).Once()

		w := doRequest(router, http.MethodGet, "/v1/_healthcheck", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"status":"unhealthy"}`, w.Body.String())
	})
}
