// Package mocks provides mock implementations of the API key use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockAPIKeyRepository is a mock implementation of APIKeyRepository.
type MockAPIKeyRepository struct {
	mock.Mock
}

// Create mocks the Create method of APIKeyRepository.
func (m *MockAPIKeyRepository) Create(ctx context.Context, keyHash string) error {
	args := m.Called(ctx, keyHash)
	return args.Error(0)
}

// Exists mocks the Exists method of APIKeyRepository.
func (m *MockAPIKeyRepository) Exists(ctx context.Context, keyHash string) (bool, error) {
	args := m.Called(ctx, keyHash)
	return args.Bool(0), args.Error(1)
}

// Delete mocks the Delete method of APIKeyRepository.
func (m *MockAPIKeyRepository) Delete(ctx context.Context, keyHash string) (bool, error) {
	args := m.Called(ctx, keyHash)
	return args.Bool(0), args.Error(1)
}

// MockAPIKeyUseCase is a mock implementation of APIKeyUseCase.
type MockAPIKeyUseCase struct {
	mock.Mock
}

// Authenticate mocks the Authenticate method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Authenticate(ctx context.Context, rawKey string) (string, error) {
	args := m.Called(ctx, rawKey)
	return args.String(0), args.Error(1)
}

// Create mocks the Create method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Create(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Revoke mocks the Revoke method of APIKeyUseCase.
func (m *MockAPIKeyUseCase) Revoke(ctx context.Context, rawKey string) error {
	args := m.Called(ctx, rawKey)
	return args.Error(0)
}
