package domain

// Algorithm represents the AEAD primitive that sealed a secret.
//
// Both supported algorithms take a 256-bit key and a 96-bit nonce, so the access
// token layout does not depend on which one is configured.
type Algorithm string

const (
	// AESGCM represents AES-256-GCM.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents ChaCha20-Poly1305.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// Sizes of the raw cryptographic material, in bytes.
const (
	KeySize   = 32
	NonceSize = 12
	IDSize    = 16

	// TokenSize is the decoded length of an access token: key || id.
	TokenSize = KeySize + IDSize
)

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
