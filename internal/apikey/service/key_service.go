// Package service generates API keys and derives the hashes they are stored under.
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	apikeyDomain "github.com/allisson/envshare/internal/apikey/domain"
	apperrors "github.com/allisson/envshare/internal/errors"
)

// KeyService generates raw API keys and hashes them for storage.
type KeyService interface {
	// Generate returns a new raw key and its hash.
	Generate() (rawKey string, keyHash string, err error)

	// Hash derives the stored form of a raw key.
	Hash(rawKey string) string
}

type keyService struct {
	rand io.Reader
}

// NewKeyService creates a KeyService reading randomness from crypto/rand.
func NewKeyService() KeyService {
	return &keyService{rand: rand.Reader}
}

// Generate reads KeySize random bytes and encodes them as unpadded base64url.
func (k *keyService) Generate() (string, string, error) {
	raw := make([]byte, apikeyDomain.KeySize)
	if _, err := io.ReadFull(k.rand, raw); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate api key")
	}

	rawKey := base64.RawURLEncoding.EncodeToString(raw)
	return rawKey, k.Hash(rawKey), nil
}

// Hash returns the hex encoded SHA-256 of the raw key.
func (k *keyService) Hash(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
