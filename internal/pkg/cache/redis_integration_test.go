//go:build integration

package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	store, err := NewRedisStore(ctx, RedisOptions{Addr: endpoint, KeyPrefix: "test:"})
	require.NoError(t, err)
	defer store.Close()

	var got map[string]int
	hit, err := store.Get(ctx, "all_subjects", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, store.Set(ctx, "all_subjects", map[string]int{"go": 3}))
	hit, err = store.Get(ctx, "all_subjects", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 3, got["go"])

	raw := redis.NewClient(&redis.Options{Addr: endpoint})
	defer raw.Close()
	ttl, err := raw.TTL(ctx, "test:all_subjects").Result()
	require.NoError(t, err)
	assert.Less(t, ttl.Seconds(), 0.0)
}
