// Package repository implements secret persistence for the vault.
// Stores are provided for PostgreSQL, MySQL, Redis, Pebble and process memory; each one
// implements the atomic consume that bounds concurrent reveals of the same secret.
package repository

import (
	"encoding/base64"
	"fmt"

	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// SQL stores keep ciphertext and nonce as standard base64 text.
func encodeBytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func decodeBytes(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored bytes: %w", err)
	}
	return b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// sqlSecretRow is the column set shared by the SQL stores, before decoding.
type sqlSecretRow struct {
	ciphertext string
	nonce      string
	algorithm  string
	secret     vaultDomain.Secret
}

func (r *sqlSecretRow) decode() (*vaultDomain.Secret, error) {
	ciphertext, err := decodeBytes(r.ciphertext)
	if err != nil {
		return nil, err
	}
	nonce, err := decodeBytes(r.nonce)
	if err != nil {
		return nil, err
	}

	secret := r.secret
	secret.Ciphertext = ciphertext
	secret.Nonce = nonce
	secret.Algorithm = vaultDomain.Algorithm(r.algorithm)
	secret.ExpiresAt = secret.ExpiresAt.UTC()
	secret.CreatedAt = secret.CreatedAt.UTC()
	return &secret, nil
}
