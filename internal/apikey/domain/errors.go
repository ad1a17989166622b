// Package domain defines the API key errors and constants guarding the vault API.
package domain

import (
	"github.com/allisson/envshare/internal/errors"
)

// KeySize is the number of random bytes behind a raw API key.
const KeySize = 32

// API key error definitions.
var (
	// ErrMissingCredential indicates the request carried no bearer credential.
	ErrMissingCredential = errors.Wrap(errors.ErrUnauthorized, "api key is missing")

	// ErrInvalidCredential indicates the credential is malformed or unknown.
	ErrInvalidCredential = errors.Wrap(errors.ErrUnauthorized, "api key is invalid")

	// ErrAuthBackend indicates the key store could not be consulted.
	ErrAuthBackend = errors.New("api key backend unavailable")

	// ErrAPIKeyNotFound indicates a revoke targeted a key that is not registered.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")
)
