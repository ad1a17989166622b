package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/allisson/envshare/internal/errors"
	vaultDomain "github.com/allisson/envshare/internal/vault/domain"
)

// Hash fields of a stored secret.
const (
	fieldCiphertext = "ciphertext"
	fieldNonce      = "nonce"
	fieldAlgorithm  = "algorithm"
	fieldReadsLeft  = "reads_left"
	fieldExpiresAt  = "expires_at"
	fieldCreatedAt  = "created_at"
)

// Results of consumeScript.
const (
	consumeNotFound = 0
	consumeExpired  = 1
	consumeOK       = 2
)

// consumeScript runs the whole check-decrement-delete sequence inside redis. It only
// touches the secret hash, so it is safe on cluster clients.
// KEYS[1] secret hash. ARGV[1] now (unix).
var consumeScript = redis.NewScript(`
local key = KEYS[1]
if redis.call('EXISTS', key) == 0 then
	return {0}
end
local reads = tonumber(redis.call('HGET', key, 'reads_left'))
local exp = tonumber(redis.call('HGET', key, 'expires_at'))
local now = tonumber(ARGV[1])
if reads == nil or exp == nil or reads <= 0 or now >= exp then
	return {1}
end
reads = reads - 1
local fields = redis.call('HMGET', key, 'ciphertext', 'nonce', 'algorithm', 'created_at')
if reads == 0 then
	redis.call('DEL', key)
else
	redis.call('HSET', key, 'reads_left', reads)
end
return {2, reads, exp, fields[1], fields[2], fields[3], fields[4]}
`)

// updateReadsLeftScript only touches existing secrets.
// KEYS[1] secret hash. ARGV[1] new counter.
var updateReadsLeftScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'reads_left', ARGV[1])
return 1
`)

// sweepBatchSize bounds how many expired ids one sweep round trip handles.
const sweepBatchSize = 500

// RedisSecretRepository implements Secret persistence on redis. Each secret is a hash
// that redis also expires on its own; a sorted set indexes expiry instants for sweeps.
//
// No script or transaction spans more than one key, so the repository works with cluster
// clients. The index may briefly hold ids whose hash is already gone; sweeps drop them
// without counting them.
type RedisSecretRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisSecretRepository creates a new redis Secret repository. Every key is namespaced
// by keyPrefix.
func NewRedisSecretRepository(client redis.UniversalClient, keyPrefix string) *RedisSecretRepository {
	return &RedisSecretRepository{client: client, prefix: keyPrefix}
}

// Create indexes the secret, then writes the hash and its expiry in one MULTI/EXEC. A
// failed hash write leaves only an index entry, never a readable partial secret.
func (r *RedisSecretRepository) Create(ctx context.Context, secret *vaultDomain.Secret) error {
	key := r.secretKey(secret.ID)
	expiresAt := secret.ExpiresAt.Unix()

	index := redis.Z{Score: float64(expiresAt), Member: secret.ID.String()}
	if err := r.client.ZAdd(ctx, r.expiryKey(), index).Err(); err != nil {
		return apperrors.Wrap(err, "failed to index secret")
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			fieldCiphertext: secret.Ciphertext,
			fieldNonce:      secret.Nonce,
			fieldAlgorithm:  string(secret.Algorithm),
			fieldReadsLeft:  secret.ReadsLeft,
			fieldExpiresAt:  expiresAt,
			fieldCreatedAt:  secret.CreatedAt.Unix(),
		})
		pipe.ExpireAt(ctx, key, secret.ExpiresAt)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret by its identifier.
func (r *RedisSecretRepository) Get(ctx context.Context, id uuid.UUID) (*vaultDomain.Secret, error) {
	fields, err := r.client.HGetAll(ctx, r.secretKey(id)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get secret")
	}
	if len(fields) == 0 {
		return nil, vaultDomain.ErrSecretNotFound
	}

	readsLeft, err := strconv.ParseInt(fields[fieldReadsLeft], 10, 64)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse reads left")
	}
	expiresAt, err := strconv.ParseInt(fields[fieldExpiresAt], 10, 64)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse expires at")
	}
	createdAt, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse created at")
	}

	return &vaultDomain.Secret{
		ID:         id,
		Ciphertext: []byte(fields[fieldCiphertext]),
		Nonce:      []byte(fields[fieldNonce]),
		Algorithm:  vaultDomain.Algorithm(fields[fieldAlgorithm]),
		ReadsLeft:  readsLeft,
		ExpiresAt:  time.Unix(expiresAt, 0).UTC(),
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
	}, nil
}

// UpdateReadsLeft overwrites the read counter of an existing secret.
func (r *RedisSecretRepository) UpdateReadsLeft(ctx context.Context, id uuid.UUID, readsLeft int64) error {
	updated, err := updateReadsLeftScript.Run(ctx, r.client, []string{r.secretKey(id)}, readsLeft).Int64()
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret reads left")
	}
	if updated == 0 {
		return apperrors.Wrap(errors.New("secret does not exist"), "failed to update secret reads left")
	}
	return nil
}

// Delete removes a secret and its index entry. Missing secrets are ignored.
func (r *RedisSecretRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, r.secretKey(id)).Err(); err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	if err := r.client.ZRem(ctx, r.expiryKey(), id.String()).Err(); err != nil {
		return apperrors.Wrap(err, "failed to unindex secret")
	}
	return nil
}

// DeleteExpired removes every secret whose expiry instant is at or before now, in batches
// of sweepBatchSize. Only hashes that still existed are counted.
func (r *RedisSecretRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	bound := &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: sweepBatchSize,
	}

	var deleted int64
	for {
		ids, err := r.client.ZRangeByScore(ctx, r.expiryKey(), bound).Result()
		if err != nil {
			return deleted, apperrors.Wrap(err, "failed to list expired secrets")
		}
		if len(ids) == 0 {
			return deleted, nil
		}

		dels := make([]*redis.IntCmd, len(ids))
		members := make([]any, len(ids))
		_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range ids {
				dels[i] = pipe.Del(ctx, r.secretKeyPrefix()+id)
				members[i] = id
			}
			pipe.ZRem(ctx, r.expiryKey(), members...)
			return nil
		})
		if err != nil {
			return deleted, apperrors.Wrap(err, "failed to delete expired secrets")
		}

		for _, del := range dels {
			deleted += del.Val()
		}
		if len(ids) < sweepBatchSize {
			return deleted, nil
		}
	}
}

// Consume spends one read with consumeScript.
func (r *RedisSecretRepository) Consume(
	ctx context.Context,
	id uuid.UUID,
	now time.Time,
) (*vaultDomain.Secret, error) {
	res, err := consumeScript.Run(
		ctx,
		r.client,
		[]string{r.secretKey(id)},
		now.Unix(),
	).Slice()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to consume secret")
	}

	status, ok := res[0].(int64)
	if !ok {
		return nil, apperrors.Wrap(fmt.Errorf("unexpected status %T", res[0]), "failed to consume secret")
	}

	switch status {
	case consumeNotFound:
		return nil, vaultDomain.ErrSecretNotFound
	case consumeExpired:
		return nil, vaultDomain.ErrSecretExpired
	case consumeOK:
	default:
		return nil, apperrors.Wrap(fmt.Errorf("unexpected status %d", status), "failed to consume secret")
	}

	if len(res) != 7 {
		return nil, apperrors.Wrap(fmt.Errorf("unexpected reply length %d", len(res)), "failed to consume secret")
	}

	readsLeft, _ := res[1].(int64)
	expiresAt, _ := res[2].(int64)
	ciphertext, _ := res[3].(string)
	nonce, _ := res[4].(string)
	algorithm, _ := res[5].(string)
	createdAtRaw, _ := res[6].(string)

	createdAt, err := strconv.ParseInt(createdAtRaw, 10, 64)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse created at")
	}

	if readsLeft == 0 {
		// The hash is already gone; a leftover index entry is dropped by the next sweep.
		_ = r.client.ZRem(ctx, r.expiryKey(), id.String()).Err()
	}

	return &vaultDomain.Secret{
		ID:         id,
		Ciphertext: []byte(ciphertext),
		Nonce:      []byte(nonce),
		Algorithm:  vaultDomain.Algorithm(algorithm),
		ReadsLeft:  readsLeft,
		ExpiresAt:  time.Unix(expiresAt, 0).UTC(),
		CreatedAt:  time.Unix(createdAt, 0).UTC(),
	}, nil
}

func (r *RedisSecretRepository) secretKeyPrefix() string {
	return r.prefix + ":secret:"
}

func (r *RedisSecretRepository) secretKey(id uuid.UUID) string {
	return r.secretKeyPrefix() + id.String()
}

func (r *RedisSecretRepository) expiryKey() string {
	return r.prefix + ":secret-expiry"
}
