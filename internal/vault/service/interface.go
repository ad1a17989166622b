// Package service provides the cipher codec used to seal and open vault secrets.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) keyed by a fresh key per secret.
package service

import (
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Seal encrypts plaintext with the given nonce and returns ciphertext with the tag appended.
	Seal(nonce, plaintext []byte) []byte

	// Open authenticates and decrypts ciphertext with the given nonce.
	Open(nonce, ciphertext []byte) ([]byte, error)
}

// Sealed is the output of one Seal call. Key must be zeroed by the caller once the
// access token has been minted.
type Sealed struct {
	Key        []byte
	Nonce      []byte
	Ciphertext []byte
	Algorithm  vaultDomain.Algorithm
}

// Cipher defines the codec contract consumed by the vault use case.
type Cipher interface {
	// Seal generates a fresh key and nonce and encrypts plaintext under them.
	Seal(plaintext []byte) (*Sealed, error)

	// Open decrypts ciphertext and validates that the plaintext is UTF-8 text.
	// Every failure is reported as vaultDomain.ErrDecryptionFailed.
	Open(alg vaultDomain.Algorithm, key, nonce, ciphertext []byte) ([]byte, error)
}
