package domain

import (
	"github.com/allisson/envshare/internal/errors"
)

// Vault error definitions.
//
// Every error the engine can return wraps one of the categories from internal/errors,
// or none at all for internal failures. The HTTP layer maps categories, never
// individual sentinels.
var (
	// ErrMalformedToken indicates the access token is not valid base64url or does not
	// decode to exactly TokenSize bytes.
	ErrMalformedToken = errors.Wrap(errors.ErrInvalidInput, "malformed token")

	// ErrInvalidRequest indicates max_reads or ttl is out of the accepted range.
	ErrInvalidRequest = errors.Wrap(errors.ErrInvalidInput, "invalid secret request")

	// ErrSecretNotFound indicates no record exists for the token's identifier.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretExpired indicates the record exists but its time window or read budget is spent.
	ErrSecretExpired = errors.Wrap(errors.ErrNotFound, "secret expired")

	// ErrDecryptionFailed indicates the ciphertext could not be authenticated with the
	// token's key, or the plaintext is not valid UTF-8. The cause is never disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrEncryptionFailed indicates sealing failed, usually because the random source failed.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrUnsupportedAlgorithm indicates an unknown AEAD algorithm name.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")
)

// IsGone reports whether err means the secret can no longer be revealed.
func IsGone(err error) bool {
	return errors.Is(err, ErrSecretNotFound) || errors.Is(err, ErrSecretExpired)
}
