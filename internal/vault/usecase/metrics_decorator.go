package usecase

import (
	"context"
	"time"

	"github.com/allisson/envshare/internal/metrics"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

const metricsDomain = "vault"

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for secret creation operations.
func (v *vaultUseCaseWithMetrics) Create(
	ctx context.Context,
	content []byte,
	maxReads int64,
	ttl time.Duration,
) (string, error) {
	start := time.Now()
	token, err := v.next.Create(ctx, content, maxReads, ttl)
	v.record(ctx, "secret_create", start, err)
	return token, err
}

// Reveal records metrics for secret reveal operations. Gone secrets count as errors.
func (v *vaultUseCaseWithMetrics) Reveal(ctx context.Context, token string) (*vaultDomain.Secret, error) {
	start := time.Now()
	secret, err := v.next.Reveal(ctx, token)
	v.record(ctx, "secret_reveal", start, err)
	return secret, err
}

// SweepExpired records metrics for expired secret sweeps.
func (v *vaultUseCaseWithMetrics) SweepExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := v.next.SweepExpired(ctx)
	v.record(ctx, "secret_sweep", start, err)
	return count, err
}

func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	v.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}
