package usecase

import (
	"context"
	"fmt"

	apikeyDomain "github.com/allisson/envshare/internal/apikey/domain"
	apikeyService "github.com/allisson/envshare/internal/apikey/service"
)

type apiKeyUseCase struct {
	repo       APIKeyRepository
	keyService apikeyService.KeyService
}

// NewAPIKeyUseCase creates a new APIKeyUseCase.
func NewAPIKeyUseCase(repo APIKeyRepository, keyService apikeyService.KeyService) APIKeyUseCase {
	return &apiKeyUseCase{
		repo:       repo,
		keyService: keyService,
	}
}

// Authenticate hashes the raw key and performs a single existence lookup.
func (a *apiKeyUseCase) Authenticate(ctx context.Context, rawKey string) (string, error) {
	if rawKey == "" {
		return "", apikeyDomain.ErrMissingCredential
	}

	keyHash := a.keyService.Hash(rawKey)

	exists, err := a.repo.Exists(ctx, keyHash)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apikeyDomain.ErrAuthBackend, err)
	}
	if !exists {
		return "", apikeyDomain.ErrInvalidCredential
	}

	return keyHash, nil
}

// Create generates a key and registers its hash.
func (a *apiKeyUseCase) Create(ctx context.Context) (string, error) {
	rawKey, keyHash, err := a.keyService.Generate()
	if err != nil {
		return "", err
	}

	if err := a.repo.Create(ctx, keyHash); err != nil {
		return "", err
	}

	return rawKey, nil
}

// Revoke removes the hash of rawKey. Returns ErrAPIKeyNotFound for unknown keys.
func (a *apiKeyUseCase) Revoke(ctx context.Context, rawKey string) error {
	if rawKey == "" {
		return apikeyDomain.ErrMissingCredential
	}

	deleted, err := a.repo.Delete(ctx, a.keyService.Hash(rawKey))
	if err != nil {
		return err
	}
	if !deleted {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	return nil
}
