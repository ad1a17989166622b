package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// CipherService implements Cipher. It is stateless apart from the random source.
type CipherService struct {
	alg  vaultDomain.Algorithm
	rand io.Reader
}

// NewCipherService creates a CipherService sealing with alg and reading randomness from
// crypto/rand.
func NewCipherService(alg vaultDomain.Algorithm) *CipherService {
	return NewCipherServiceWithRand(alg, rand.Reader)
}

// NewCipherServiceWithRand creates a CipherService with a custom random source.
// Only tests should pass anything other than crypto/rand.Reader.
func NewCipherServiceWithRand(alg vaultDomain.Algorithm, r io.Reader) *CipherService {
	return &CipherService{alg: alg, rand: r}
}

// Seal generates a fresh 256-bit key and 96-bit nonce and seals plaintext under them.
func (c *CipherService) Seal(plaintext []byte) (*Sealed, error) {
	key := make([]byte, vaultDomain.KeySize)
	if _, err := io.ReadFull(c.rand, key); err != nil {
		return nil, fmt.Errorf("%w: failed to generate key: %v", vaultDomain.ErrEncryptionFailed, err)
	}

	nonce := make([]byte, vaultDomain.NonceSize)
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		vaultDomain.Zero(key)
		return nil, fmt.Errorf("%w: failed to generate nonce: %v", vaultDomain.ErrEncryptionFailed, err)
	}

	aead, err := newAEAD(c.alg, key)
	if err != nil {
		vaultDomain.Zero(key)
		return nil, fmt.Errorf("%w: %v", vaultDomain.ErrEncryptionFailed, err)
	}

	return &Sealed{
		Key:        key,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nonce, plaintext),
		Algorithm:  c.alg,
	}, nil
}

// Open decrypts ciphertext. The underlying cause is dropped so nothing about the key or
// ciphertext reaches the caller.
func (c *CipherService) Open(
	alg vaultDomain.Algorithm,
	key, nonce, ciphertext []byte,
) ([]byte, error) {
	if len(key) != vaultDomain.KeySize || len(nonce) != vaultDomain.NonceSize {
		return nil, vaultDomain.ErrDecryptionFailed
	}

	aead, err := newAEAD(alg, key)
	if err != nil {
		return nil, vaultDomain.ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nonce, ciphertext)
	if err != nil {
		return nil, vaultDomain.ErrDecryptionFailed
	}

	if !utf8.Valid(plaintext) {
		vaultDomain.Zero(plaintext)
		return nil, vaultDomain.ErrDecryptionFailed
	}

	return plaintext, nil
}

func newAEAD(alg vaultDomain.Algorithm, key []byte) (AEAD, error) {
	switch alg {
	case vaultDomain.AESGCM:
		return NewAESGCM(key)
	case vaultDomain.ChaCha20:
		return NewChaCha20Poly1305(key)
	default:
		return nil, vaultDomain.ErrUnsupportedAlgorithm
	}
}
