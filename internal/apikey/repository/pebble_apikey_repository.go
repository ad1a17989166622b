package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/cockroachdb/pebble"

	apperrors "github.com/allisson/envshare/internal/errors"
)

const pebbleAPIKeyPrefix = "apikey/"

// PebbleAPIKeyRepository stores each hash as an empty value under apikey/<hash>.
type PebbleAPIKeyRepository struct {
	mu sync.Mutex
	db *pebble.DB
}

// NewPebbleAPIKeyRepository creates a new pebble API key repository.
func NewPebbleAPIKeyRepository(db *pebble.DB) *PebbleAPIKeyRepository {
	return &PebbleAPIKeyRepository{db: db}
}

// Create writes the hash key.
func (p *PebbleAPIKeyRepository) Create(_ context.Context, keyHash string) error {
	if err := p.db.Set(pebbleAPIKey(keyHash), nil, pebble.Sync); err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Exists checks whether the hash key is present.
func (p *PebbleAPIKeyRepository) Exists(_ context.Context, keyHash string) (bool, error) {
	return p.exists(keyHash)
}

// Delete removes the hash key.
func (p *PebbleAPIKeyRepository) Delete(_ context.Context, keyHash string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	exists, err := p.exists(keyHash)
	if err != nil || !exists {
		return false, err
	}

	if err := p.db.Delete(pebbleAPIKey(keyHash), pebble.Sync); err != nil {
		return false, apperrors.Wrap(err, "failed to delete api key")
	}
	return true, nil
}

func (p *PebbleAPIKeyRepository) exists(keyHash string) (bool, error) {
	_, closer, err := p.db.Get(pebbleAPIKey(keyHash))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check api key")
	}
	if err := closer.Close(); err != nil {
		return false, apperrors.Wrap(err, "failed to check api key")
	}
	return true, nil
}

func pebbleAPIKey(keyHash string) []byte {
	return []byte(pebbleAPIKeyPrefix + keyHash)
}
