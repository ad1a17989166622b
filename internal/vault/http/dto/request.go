// Package dto provides data transfer objects for the vault HTTP API.
package dto

import (
	"math"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/envshare/internal/validation"
)

// maxTTLSeconds is the largest ttl whose duration fits in a time.Duration.
const maxTTLSeconds = int64(math.MaxInt64 / time.Second)

// CreateSecretRequest is the body of POST /v1/secret.
type CreateSecretRequest struct {
	Content  string `json:"content"`
	MaxReads int64  `json:"max_reads"`
	// TTL is the lifetime in seconds, counted from creation.
	TTL int64 `json:"ttl"`
}

// Validate checks the request shape. Upper bounds are enforced by the use case.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Content, customValidation.UTF8),
		validation.Field(&r.MaxReads, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.TTL, validation.Required, validation.Min(int64(1)), validation.Max(maxTTLSeconds)),
	)
}

// TTLDuration converts TTL to a duration. Only meaningful after Validate succeeds.
func (r *CreateSecretRequest) TTLDuration() time.Duration {
	return time.Duration(r.TTL) * time.Second
}
