// Package validation provides custom validation rules for request DTOs.
package validation

import (
	"encoding/base64"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/envshare/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// UTF8 validates that a string holds valid UTF-8 text.
var UTF8 = validation.NewStringRuleWithError(
	utf8.ValidString,
	validation.NewError("validation_utf8", "must be valid UTF-8 text"),
)

// Base64URL validates that a string is unpadded base64url data decoding to exactly size bytes.
// Empty strings pass so that Required decides about presence.
func Base64URL(size int) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return validation.NewError("validation_base64url_type", "must be a string")
		}
		if s == "" {
			return nil
		}
		raw, err := base64.RawURLEncoding.Strict().DecodeString(s)
		if err != nil || len(raw) != size {
			return validation.NewError("validation_base64url", "must be valid base64url-encoded data")
		}
		return nil
	})
}
