package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"

	apperrors "github.com/allisson/envshare/internal/errors"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

const (
	pebbleSecretPrefix = "secret/"
	pebbleExpiryPrefix = "expiry/"
)

// pebbleSecret is the JSON value stored under secret/<id>.
type pebbleSecret struct {
	Ciphertext []byte `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
	Algorithm  string `json:"algorithm"`
	ReadsLeft  int64  `json:"reads_left"`
	ExpiresAt  int64  `json:"expires_at"`
	CreatedAt  int64  `json:"created_at"`
}

// PebbleSecretRepository implements Secret persistence on an embedded pebble database.
//
// Keys:
//   - secret/<id> holds the JSON encoded record
//   - expiry/<20 digit unix seconds>/<id> indexes records by expiry instant
//
// Read-modify-write sequences run under a process-wide mutex and commit as one batch.
type PebbleSecretRepository struct {
	mu sync.Mutex
	db *pebble.DB
}

// NewPebbleSecretRepository creates a new pebble Secret repository.
func NewPebbleSecretRepository(db *pebble.DB) *PebbleSecretRepository {
	return &PebbleSecretRepository{db: db}
}

// Create writes the record and its expiry index entry in one batch.
func (p *PebbleSecretRepository) Create(_ context.Context, secret *vaultDomain.Secret) error {
	value, err := json.Marshal(pebbleSecret{
		Ciphertext: secret.Ciphertext,
		Nonce:      secret.Nonce,
		Algorithm:  string(secret.Algorithm),
		ReadsLeft:  secret.ReadsLeft,
		ExpiresAt:  secret.ExpiresAt.Unix(),
		CreatedAt:  secret.CreatedAt.Unix(),
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode secret")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	batch := p.db.NewBatch()
	defer func() { _ = batch.Close() }()

	if err := batch.Set(pebbleSecretKey(secret.ID), value, nil); err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	if err := batch.Set(pebbleExpiryKey(secret.ExpiresAt.Unix(), secret.ID), nil, nil); err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret by its identifier.
func (p *PebbleSecretRepository) Get(_ context.Context, id uuid.UUID) (*vaultDomain.Secret, error) {
	stored, err := p.load(id)
	if err != nil {
		return nil, err
	}
	return stored.toDomain(id), nil
}

// UpdateReadsLeft overwrites the read counter of an existing secret.
func (p *PebbleSecretRepository) UpdateReadsLeft(_ context.Context, id uuid.UUID, readsLeft int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, err := p.load(id)
	if err != nil {
		if errors.Is(err, vaultDomain.ErrSecretNotFound) {
			return apperrors.Wrap(errors.New("secret does not exist"), "failed to update secret reads left")
		}
		return err
	}

	stored.ReadsLeft = readsLeft
	if err := p.save(id, stored); err != nil {
		return apperrors.Wrap(err, "failed to update secret reads left")
	}
	return nil
}

// Delete removes a secret and its index entry. Missing secrets are ignored.
func (p *PebbleSecretRepository) Delete(_ context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, err := p.load(id)
	if errors.Is(err, vaultDomain.ErrSecretNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := p.remove(id, stored.ExpiresAt); err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return nil
}

// DeleteExpired walks the expiry index up to now and removes every record it finds.
func (p *PebbleSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(pebbleExpiryPrefix),
		UpperBound: []byte(fmt.Sprintf("%s%020d", pebbleExpiryPrefix, now.Unix()+1)),
	})
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired secrets")
	}

	batch := p.db.NewBatch()
	defer func() { _ = batch.Close() }()

	var count int64
	for ok := iter.First(); ok; ok = iter.Next() {
		if err := ctx.Err(); err != nil {
			_ = iter.Close()
			return 0, err
		}

		indexKey := append([]byte(nil), iter.Key()...)
		id, err := parsePebbleExpiryKey(indexKey)
		if err != nil {
			_ = iter.Close()
			return 0, apperrors.Wrap(err, "failed to delete expired secrets")
		}

		if err := batch.Delete(indexKey, nil); err != nil {
			_ = iter.Close()
			return 0, apperrors.Wrap(err, "failed to delete expired secrets")
		}
		if err := batch.Delete(pebbleSecretKey(id), nil); err != nil {
			_ = iter.Close()
			return 0, apperrors.Wrap(err, "failed to delete expired secrets")
		}
		count++
	}
	if err := iter.Close(); err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired secrets")
	}

	if count == 0 {
		return 0, nil
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired secrets")
	}
	return count, nil
}

// Consume applies the domain state machine under the repository mutex and persists the
// outcome as one batch.
func (p *PebbleSecretRepository) Consume(
	_ context.Context,
	id uuid.UUID,
	now time.Time,
) (*vaultDomain.Secret, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, err := p.load(id)
	if err != nil {
		return nil, err
	}

	secret := stored.toDomain(id)
	if err := secret.Consume(now); err != nil {
		return nil, err
	}

	if secret.Exhausted() {
		err = p.remove(id, stored.ExpiresAt)
	} else {
		stored.ReadsLeft = secret.ReadsLeft
		err = p.save(id, stored)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to consume secret")
	}

	return secret, nil
}

func (p *PebbleSecretRepository) load(id uuid.UUID) (*pebbleSecret, error) {
	value, closer, err := p.db.Get(pebbleSecretKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, vaultDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}
	defer func() { _ = closer.Close() }()

	var stored pebbleSecret
	if err := json.Unmarshal(value, &stored); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode secret")
	}
	return &stored, nil
}

func (p *PebbleSecretRepository) save(id uuid.UUID, stored *pebbleSecret) error {
	value, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	return p.db.Set(pebbleSecretKey(id), value, pebble.Sync)
}

func (p *PebbleSecretRepository) remove(id uuid.UUID, expiresAt int64) error {
	batch := p.db.NewBatch()
	defer func() { _ = batch.Close() }()

	if err := batch.Delete(pebbleSecretKey(id), nil); err != nil {
		return err
	}
	if err := batch.Delete(pebbleExpiryKey(expiresAt, id), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

func (s *pebbleSecret) toDomain(id uuid.UUID) *vaultDomain.Secret {
	return &vaultDomain.Secret{
		ID:         id,
		Ciphertext: s.Ciphertext,
		Nonce:      s.Nonce,
		Algorithm:  vaultDomain.Algorithm(s.Algorithm),
		ReadsLeft:  s.ReadsLeft,
		ExpiresAt:  time.Unix(s.ExpiresAt, 0).UTC(),
		CreatedAt:  time.Unix(s.CreatedAt, 0).UTC(),
	}
}

func pebbleSecretKey(id uuid.UUID) []byte {
	return []byte(pebbleSecretPrefix + id.String())
}

// pebbleExpiryKey zero-pads the instant so lexical order matches time order.
func pebbleExpiryKey(unix int64, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", pebbleExpiryPrefix, unix, id.String()))
}

func parsePebbleExpiryKey(key []byte) (uuid.UUID, error) {
	const idOffset = len(pebbleExpiryPrefix) + 20 + 1
	if len(key) <= idOffset {
		return uuid.Nil, fmt.Errorf("malformed expiry key %q", key)
	}
	return uuid.Parse(string(key[idOffset:]))
}
