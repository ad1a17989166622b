package repository

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/envshare/internal/errors"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// MemorySecretRepository keeps secrets in process memory. Intended for development
// and tests; nothing survives a restart.
type MemorySecretRepository struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]vaultDomain.Secret
}

// NewMemorySecretRepository creates an empty in-memory Secret repository.
func NewMemorySecretRepository() *MemorySecretRepository {
	return &MemorySecretRepository{secrets: make(map[uuid.UUID]vaultDomain.Secret)}
}

// Create stores a copy of secret.
func (r *MemorySecretRepository) Create(_ context.Context, secret *vaultDomain.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.secrets[secret.ID]; ok {
		return apperrors.Wrap(errors.New("duplicate secret id"), "failed to create secret")
	}
	r.secrets[secret.ID] = cloneSecret(secret)
	return nil
}

// Get returns a copy of the stored secret.
func (r *MemorySecretRepository) Get(_ context.Context, id uuid.UUID) (*vaultDomain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	secret, ok := r.secrets[id]
	if !ok {
		return nil, vaultDomain.ErrSecretNotFound
	}
	out := cloneSecret(&secret)
	return &out, nil
}

// UpdateReadsLeft overwrites the read counter of an existing secret.
func (r *MemorySecretRepository) UpdateReadsLeft(_ context.Context, id uuid.UUID, readsLeft int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	secret, ok := r.secrets[id]
	if !ok {
		return apperrors.Wrap(errors.New("secret does not exist"), "failed to update secret reads left")
	}
	secret.ReadsLeft = readsLeft
	r.secrets[id] = secret
	return nil
}

// Delete removes a secret. Missing secrets are ignored.
func (r *MemorySecretRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.secrets, id)
	return nil
}

// DeleteExpired removes every secret whose expiry instant is at or before now.
func (r *MemorySecretRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for id, secret := range r.secrets {
		if !secret.ExpiresAt.After(now) {
			delete(r.secrets, id)
			count++
		}
	}
	return count, nil
}

// Consume applies the domain state machine under the repository lock.
func (r *MemorySecretRepository) Consume(
	_ context.Context,
	id uuid.UUID,
	now time.Time,
) (*vaultDomain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	secret, ok := r.secrets[id]
	if !ok {
		return nil, vaultDomain.ErrSecretNotFound
	}

	if err := secret.Consume(now); err != nil {
		return nil, err
	}

	if secret.Exhausted() {
		delete(r.secrets, id)
	} else {
		r.secrets[id] = secret
	}

	out := cloneSecret(&secret)
	return &out, nil
}

func cloneSecret(s *vaultDomain.Secret) vaultDomain.Secret {
	out := *s
	out.Ciphertext = bytes.Clone(s.Ciphertext)
	out.Nonce = bytes.Clone(s.Nonce)
	out.Plaintext = nil
	return out
}
