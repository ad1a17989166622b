package dto

import (
	"time"

	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// CreateSecretResponse carries the access token. It is the only copy of the key.
type CreateSecretResponse struct {
	Token string `json:"token"`
}

// RevealSecretResponse is the body of GET /v1/secret/:token.
type RevealSecretResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ReadsLeft int64     `json:"reads_left"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// MapSecretToRevealResponse converts a revealed secret into its response body.
func MapSecretToRevealResponse(secret *vaultDomain.Secret) RevealSecretResponse {
	return RevealSecretResponse{
		ID:        secret.ID.String(),
		Content:   string(secret.Plaintext),
		ReadsLeft: secret.ReadsLeft,
		ExpiresAt: secret.ExpiresAt,
		CreatedAt: secret.CreatedAt,
	}
}
