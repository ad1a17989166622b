package usecase

import (
	"context"
	"time"

	"github.com/allisson/envshare/internal/metrics"
)

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Authenticate records metrics for credential checks.
func (a *apiKeyUseCaseWithMetrics) Authenticate(ctx context.Context, rawKey string) (string, error) {
	start := time.Now()
	keyHash, err := a.next.Authenticate(ctx, rawKey)
	a.record(ctx, "api_key_authenticate", start, err)
	return keyHash, err
}

// Create records metrics for key issuance.
func (a *apiKeyUseCaseWithMetrics) Create(ctx context.Context) (string, error) {
	start := time.Now()
	rawKey, err := a.next.Create(ctx)
	a.record(ctx, "api_key_create", start, err)
	return rawKey, err
}

// Revoke records metrics for key revocation.
func (a *apiKeyUseCaseWithMetrics) Revoke(ctx context.Context, rawKey string) error {
	start := time.Now()
	err := a.next.Revoke(ctx, rawKey)
	a.record(ctx, "api_key_revoke", start, err)
	return err
}

func (a *apiKeyUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "apikey", operation, status)
	a.metrics.RecordDuration(ctx, "apikey", operation, time.Since(start), status)
}
