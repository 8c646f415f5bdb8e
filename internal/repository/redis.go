package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions holds the connection settings for RedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache implements the response cache on top of Redis
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("repository: failed to connect to redis at %s: %w", opts.Addr, err)
	}

	return &RedisCache{client: client}, nil
}

// Get returns the cached value for key. A missing key is not an error.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("repository: failed to read %q from redis: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key for ttl
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("repository: failed to write %q to redis: %w", key, err)
	}
	return nil
}

// Close releases the connection pool
func (r *RedisCache) Close() error {
	return r.client.Close()
}
