// Package errors defines the three error categories the transport layer understands.
// Domain packages wrap a category into their own sentinels; handlers only ever test
// for the category.
package errors

import (
	"errors"
	"fmt"
)

// Error categories.
var (
	// ErrNotFound means the secret or key does not exist, or no longer exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means the caller sent something that can never succeed as sent.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized means the request carried no usable credential.
	ErrUnauthorized = errors.New("unauthorized")
)

// New returns an uncategorised error.
func New(message string) error {
	return errors.New(message)
}

// Wrap prefixes err with message, keeping err reachable through Is. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether err belongs to target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Join combines errs, discarding nil values.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
