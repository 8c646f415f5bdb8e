//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) *RedisCache {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		redisC.Terminate(ctx)
	})

	host, err := redisC.Host(ctx)
	require.NoError(t, err)

	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)

	cache, err := NewRedisCache(ctx, RedisOptions{Addr: host + ":" + port.Port()})
	require.NoError(t, err)

	t.Cleanup(func() {
		cache.Close()
	})

	return cache
}

func TestRedisCache_GetSet(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cache := setupTestRedis(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		key      string
		value    []byte
		store    bool
		expectOK bool
	}{
		{
			name:     "stored response",
			key:      "where:v1:lidl",
			value:    []byte(`{"found":true,"top5":[],"results":[]}`),
			store:    true,
			expectOK: true,
		},
		{
			name:     "greek key",
			key:      "where:v1:ακρόπολη",
			value:    []byte(`{"found":true}`),
			store:    true,
			expectOK: true,
		},
		{
			name: "missing key",
			key:  "nearby:v1:37.97000,23.73000:cafe:0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.store {
				require.NoError(t, cache.Set(ctx, tt.key, tt.value, time.Minute))
			}

			value, ok, err := cache.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expectOK, ok)
			if tt.expectOK {
				assert.Equal(t, tt.value, value)
			}
		})
	}
}

func TestRedisCache_Expiry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	cache := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", []byte("x"), time.Second))

	assert.Eventually(t, func() bool {
		_, ok, err := cache.Get(ctx, "short")
		return err == nil && !ok
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
