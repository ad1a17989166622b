package repository

import (
	"context"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/envshare/internal/errors"
)

// RedisAPIKeyRepository keeps every registered hash in one redis set.
type RedisAPIKeyRepository struct {
	client redis.UniversalClient
	key    string
}

// NewRedisAPIKeyRepository creates a new redis API key repository storing hashes under
// <keyPrefix>:api-keys.
func NewRedisAPIKeyRepository(client redis.UniversalClient, keyPrefix string) *RedisAPIKeyRepository {
	return &RedisAPIKeyRepository{client: client, key: keyPrefix + ":api-keys"}
}

// Create adds a key hash to the set.
func (r *RedisAPIKeyRepository) Create(ctx context.Context, keyHash string) error {
	if err := r.client.SAdd(ctx, r.key, keyHash).Err(); err != nil {
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// Exists checks set membership.
func (r *RedisAPIKeyRepository) Exists(ctx context.Context, keyHash string) (bool, error) {
	exists, err := r.client.SIsMember(ctx, r.key, keyHash).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check api key")
	}
	return exists, nil
}

// Delete removes a key hash from the set.
func (r *RedisAPIKeyRepository) Delete(ctx context.Context, keyHash string) (bool, error) {
	removed, err := r.client.SRem(ctx, r.key, keyHash).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to delete api key")
	}
	return removed > 0, nil
}
