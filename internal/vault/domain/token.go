package domain

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// tokenEncoding is unpadded base64url so tokens can be used as a path segment as-is.
var tokenEncoding = base64.RawURLEncoding.Strict()

// EncodeToken packs key || id into an access token.
func EncodeToken(key []byte, id uuid.UUID) (string, error) {
	if len(key) != KeySize {
		return "", ErrMalformedToken
	}

	raw := make([]byte, 0, TokenSize)
	raw = append(raw, key...)
	raw = append(raw, id[:]...)
	defer Zero(raw)

	return tokenEncoding.EncodeToString(raw), nil
}

// DecodeToken splits an access token into its key and identifier. The split is fixed
// at KeySize/IDSize; any other decoded length is rejected.
func DecodeToken(token string) (key []byte, id uuid.UUID, err error) {
	if tokenEncoding.DecodedLen(len(token)) != TokenSize {
		return nil, uuid.Nil, ErrMalformedToken
	}

	raw, err := tokenEncoding.DecodeString(token)
	if err != nil || len(raw) != TokenSize {
		return nil, uuid.Nil, ErrMalformedToken
	}

	key = raw[:KeySize:KeySize]
	copy(id[:], raw[KeySize:])

	return key, id, nil
}

// Zero overwrites a byte slice with zeros to clear key material from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
