package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/allisson/envshare/internal/database"
)

const defaultRedisTestAddr = "localhost:6379"

func redisTestAddr() string {
	return envOr("TEST_REDIS_ADDR", defaultRedisTestAddr)
}

// SetupRedis returns a client for the redis test server and a key prefix unique to the
// test. Keys under the prefix are removed when the test ends. The test is skipped when
// no server answers.
func SetupRedis(t *testing.T) (*redis.Client, string) {
	t.Helper()

	client, err := database.ConnectRedis(context.Background(), database.RedisConfig{
		Addr:        redisTestAddr(),
		PingTimeout: pingTimeout,
	})
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}

	prefix := "envshare-test-" + uuid.NewString()

	t.Cleanup(func() {
		ctx := context.Background()
		iter := client.Scan(ctx, 0, prefix+":*", 100).Iterator()
		for iter.Next(ctx) {
			_ = client.Del(ctx, iter.Val()).Err()
		}
		_ = client.Close()
	})

	return client, prefix
}

// SetupPebble opens a pebble database in a temporary directory that is closed and
// removed when the test ends.
func SetupPebble(t *testing.T) *pebble.DB {
	t.Helper()

	db, err := database.OpenPebble(filepath.Join(t.TempDir(), "pebble"))
	require.NoError(t, err, "failed to open pebble database")

	t.Cleanup(func() {
		require.NoError(t, db.Close(), "failed to close pebble database")
	})

	return db
}
