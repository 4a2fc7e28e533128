package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/clausewise/contract-engine/internal/domain"
)

// startRedis spins up a Redis container and returns its address.
func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx,
		"redis:7.4-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port())
}

// isDockerAvailable checks if Docker is available for testing.
func isDockerAvailable() (available bool) {
	// testcontainers panics (rather than returning an error) when no Docker
	// host can be found; treat that as "not available" so tests skip.
	defer func() {
		if recover() != nil {
			available = false
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return false
	}
	defer provider.Close()

	_, err = provider.Client().Ping(ctx)
	return err == nil
}

func newTestRedisStore(t *testing.T, ttl time.Duration) *RedisStore {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if !isDockerAvailable() {
		t.Skip("Docker not available")
	}

	store, err := NewRedisStore(RedisConfig{
		Addr: startRedis(t),
		TTL:  ttl,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestRedisStore_CreateAndGet(t *testing.T) {
	store := newTestRedisStore(t, 0)
	ctx := context.Background()

	id, err := store.Create(ctx, "contract text")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, err := store.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, sess.ID)
	require.Equal(t, "contract text", sess.DocumentText)
	require.False(t, sess.CreatedAt.IsZero())
}

func TestRedisStore_GetMissing(t *testing.T) {
	store := newTestRedisStore(t, 0)

	_, err := store.Get(context.Background(), "no-such-id")
	require.Error(t, err)
	require.True(t, domain.IsType(err, domain.ErrorTypeSessionNotFound))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store := newTestRedisStore(t, time.Second)
	ctx := context.Background()

	id, err := store.Create(ctx, "ephemeral")
	require.NoError(t, err)

	_, err = store.Get(ctx, id)
	require.NoError(t, err)

	time.Sleep(1500 * time.Millisecond)

	// An expired session reads exactly like one that never existed.
	_, err = store.Get(ctx, id)
	require.Error(t, err)
	require.True(t, domain.IsType(err, domain.ErrorTypeSessionNotFound))
}

func TestRedisStore_UniqueIDs(t *testing.T) {
	store := newTestRedisStore(t, 0)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := store.Create(ctx, "doc")
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate id: %s", id)
		seen[id] = true
	}
}
