// Package http provides the API key guard for the vault routes.
package http

import "context"

// apiKeyHashKey is a context key type for storing the authenticated key hash.
type apiKeyHashKey struct{}

// WithAPIKeyHash stores the hash of the authenticated API key in the context.
func WithAPIKeyHash(ctx context.Context, keyHash string) context.Context {
	return context.WithValue(ctx, apiKeyHashKey{}, keyHash)
}

// GetAPIKeyHash retrieves the authenticated key hash from the context.
// Returns ("", false) if the request was not authenticated.
func GetAPIKeyHash(ctx context.Context) (string, bool) {
	keyHash, ok := ctx.Value(apiKeyHashKey{}).(string)
	return keyHash, ok && keyHash != ""
}
