// Package usecase implements API key authentication and management.
package usecase

import (
	"context"
)

// APIKeyRepository persists API key hashes. Raw keys are never stored.
type APIKeyRepository interface {
	// Create registers a key hash. Registering an existing hash is not an error.
	Create(ctx context.Context, keyHash string) error

	// Exists reports whether the hash is registered.
	Exists(ctx context.Context, keyHash string) (bool, error)

	// Delete removes a hash and reports whether it was registered.
	Delete(ctx context.Context, keyHash string) (bool, error)
}

// APIKeyUseCase defines the API key business logic.
type APIKeyUseCase interface {
	// Authenticate checks a raw bearer credential and returns its hash on success.
	Authenticate(ctx context.Context, rawKey string) (string, error)

	// Create issues a new API key. The raw key is returned once and never stored.
	Create(ctx context.Context) (string, error)

	// Revoke unregisters a raw API key.
	Revoke(ctx context.Context, rawKey string) error
}
