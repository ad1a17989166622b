// Package httputil provides the HTTP error mapping shared by every handler.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/envshare/internal/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorMapping ties a category to its response. An empty message echoes the error text.
type errorMapping struct {
	category error
	status   int
	code     string
	message  string
}

var errorMappings = []errorMapping{
	{category: apperrors.ErrUnauthorized, status: http.StatusUnauthorized, code: "unauthorized"},
	{category: apperrors.ErrInvalidInput, status: http.StatusBadRequest, code: "invalid_input"},
	{
		category: apperrors.ErrNotFound,
		status:   http.StatusNotFound,
		code:     "not_found",
		message:  "The requested secret does not exist or has expired",
	},
}

var internalError = ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

// HandleErrorGin aborts the request with the status of err's category.
//
// Uncategorised errors are internal failures: logged at error level with full detail and
// answered with an opaque 500.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status, response := http.StatusInternalServerError, internalError
	for _, mapping := range errorMappings {
		if apperrors.Is(err, mapping.category) {
			status = mapping.status
			response = ErrorResponse{Error: mapping.code, Message: mapping.message}
			if response.Message == "" {
				response.Message = err.Error()
			}
			break
		}
	}

	if logger != nil {
		level := slog.LevelDebug
		if status == http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.AbortWithStatusJSON(status, response)
}

// HandleBadRequestGin aborts with 400 for a body that could not be parsed.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	abortBadRequest(c, "bad_request", err, logger)
}

// HandleValidationErrorGin aborts with 400 for a body that parsed but failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	abortBadRequest(c, "validation_error", err, logger)
}

func abortBadRequest(c *gin.Context, code string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.String("error_code", code), slog.Any("error", err))
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: code, Message: err.Error()})
}
