// Package usecase defines the interfaces and implementations for the secret vault use cases.
// Use cases orchestrate the cipher codec, the access token codec and the secret repository
// to create one-time secrets and reveal them under their read and time budgets.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// SecretRepository defines the interface for Secret persistence operations.
type SecretRepository interface {
	// Create inserts a new record. A record is never partially written.
	Create(ctx context.Context, secret *vaultDomain.Secret) error

	// Get fetches a record by identifier. Returns ErrSecretNotFound when absent.
	Get(ctx context.Context, id uuid.UUID) (*vaultDomain.Secret, error)

	// UpdateReadsLeft overwrites the read counter. A missing id is a storage error.
	UpdateReadsLeft(ctx context.Context, id uuid.UUID, readsLeft int64) error

	// Delete removes a record. Deleting a missing id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes every record with expires_at <= now and returns how many went.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// Consume atomically spends one read: it decrements reads_left when the record exists,
	// has reads left and expires after now, and deletes the record in the same atomic unit
	// when the counter reaches zero. The returned record carries the decremented counter.
	// Returns ErrSecretNotFound when absent and ErrSecretExpired, without mutation, when
	// the record exists but cannot be consumed.
	Consume(ctx context.Context, id uuid.UUID, now time.Time) (*vaultDomain.Secret, error)
}

// VaultUseCase defines the interface for the secret vault business logic.
type VaultUseCase interface {
	// Create seals content under a fresh key, stores the record and returns the access token.
	Create(ctx context.Context, content []byte, maxReads int64, ttl time.Duration) (string, error)

	// Reveal spends one read of the secret behind token and returns it decrypted.
	//
	// Security Note: The returned Secret contains plaintext data in the Plaintext field.
	// Callers MUST zero this data after use by calling vaultDomain.Zero(secret.Plaintext).
	Reveal(ctx context.Context, token string) (*vaultDomain.Secret, error)

	// SweepExpired deletes every time-expired record and returns the count.
	SweepExpired(ctx context.Context) (int64, error)
}
