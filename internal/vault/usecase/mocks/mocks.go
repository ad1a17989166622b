// Package mocks provides mock implementations of the vault use case interfaces for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository.
type MockSecretRepository struct {
	mock.Mock
}

// NewMockSecretRepository creates a MockSecretRepository whose expectations are asserted on cleanup.
func NewMockSecretRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSecretRepository {
	m := &MockSecretRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create mocks the Create method of SecretRepository.
func (m *MockSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// Get mocks the Get method of SecretRepository.
func (m *MockSecretRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

// UpdateReadsLeft mocks the UpdateReadsLeft method of SecretRepository.
func (m *MockSecretRepository) UpdateReadsLeft(ctx context.Context, id uuid.UUID, readsLeft int64) error {
	args := m.Called(ctx, id, readsLeft)
	return args.Error(0)
}

// Delete mocks the Delete method of SecretRepository.
func (m *MockSecretRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteExpired mocks the DeleteExpired method of SecretRepository.
func (m *MockSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Consume mocks the Consume method of SecretRepository.
func (m *MockSecretRepository) Consume(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

// MockVaultUseCase is a mock implementation of VaultUseCase.
type MockVaultUseCase struct {
	mock.Mock
}

// NewMockVaultUseCase creates a MockVaultUseCase whose expectations are asserted on cleanup.
func NewMockVaultUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVaultUseCase {
	m := &MockVaultUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Create mocks the Create method of VaultUseCase.
func (m *MockVaultUseCase) Create(
	ctx context.Context,
	content []byte,
	maxReads int64,
	ttl time.Duration,
) (string, error) {
	args := m.Called(ctx, content, maxReads, ttl)
	return args.String(0), args.Error(1)
}

// Reveal mocks the Reveal method of VaultUseCase.
func (m *MockVaultUseCase) Reveal(ctx context.Context, token string) (*vaultDomain.Secret, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Secret), args.Error(1)
}

// SweepExpired mocks the SweepExpired method of VaultUseCase.
func (m *MockVaultUseCase) SweepExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
