// Package domain defines the secret record, its expiry state machine and the access
// token that pairs a record identifier with the key that sealed it.
//
// A record moves from Fresh to Readable and ends either Exhausted (no reads left) or
// Expired (past its expiry instant). Both terminal states are represented by the
// record no longer existing in the store.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret is the persisted form of one shared secret.
type Secret struct {
	// ID is the random 128-bit identifier, also embedded in the access token.
	ID uuid.UUID
	// Ciphertext is the AEAD output, authentication tag included.
	Ciphertext []byte
	// Nonce is the 96-bit nonce used to seal Ciphertext.
	Nonce []byte
	// Algorithm names the AEAD primitive that produced Ciphertext.
	Algorithm Algorithm
	// ReadsLeft is the remaining read budget. A stored record always has ReadsLeft > 0.
	ReadsLeft int64
	// ExpiresAt is the instant at and after which the secret is unreadable.
	ExpiresAt time.Time
	// CreatedAt is the UTC creation instant.
	CreatedAt time.Time
	// Plaintext holds the revealed content in memory only; must be zeroed after use.
	Plaintext []byte `json:"-"`
}

// NewSecret builds a Fresh record. ExpiresAt is rounded up to whole seconds so every
// store round-trips it unchanged and the secret never expires before now + ttl.
func NewSecret(
	ciphertext, nonce []byte,
	alg Algorithm,
	maxReads int64,
	ttl time.Duration,
	now time.Time,
) *Secret {
	now = now.UTC()
	return &Secret{
		ID:         uuid.New(),
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Algorithm:  alg,
		ReadsLeft:  maxReads,
		ExpiresAt:  ceilSecond(now.Add(ttl)),
		CreatedAt:  now.Truncate(time.Second),
	}
}

func ceilSecond(t time.Time) time.Time {
	if floor := t.Truncate(time.Second); floor.Before(t) {
		return floor.Add(time.Second)
	}
	return t
}

// IsExpired reports whether the secret can no longer be read at now.
func (s *Secret) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt) || s.ReadsLeft <= 0
}

// Consume spends one read. It returns ErrSecretExpired without mutating the record
// when the secret is already expired.
func (s *Secret) Consume(now time.Time) error {
	if s.IsExpired(now) {
		return ErrSecretExpired
	}
	s.ReadsLeft--
	return nil
}

// Exhausted reports whether the read budget is spent and the record must be deleted.
func (s *Secret) Exhausted() bool {
	return s.ReadsLeft <= 0
}
