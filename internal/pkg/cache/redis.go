package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures NewRedisStore
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// KeyPrefix namespaces every key written by this store
	KeyPrefix string
}

// RedisStore is a Store backed by Redis. Keys are written without a TTL so
// the server's eviction policy decides their lifetime.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewRedisStoreFromClient(rdb, opts.KeyPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(rdb *redis.Client, prefix string) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, s.prefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Close releases the underlying client
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
