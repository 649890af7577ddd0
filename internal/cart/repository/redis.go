package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStorage keeps the cart record under a single Redis key. This is the
// default backend.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage creates a Redis-backed storage handle
func NewRedisStorage(client *redis.Client, key string) *RedisStorage {
	return &RedisStorage{client: client, key: key}
}

// Get returns the stored value, or found=false when the key is absent
func (s *RedisStorage) Get(ctx context.Context) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return value, true, nil
}

// Set stores the value without expiry; the cart has no lifecycle beyond
// explicit clearing
func (s *RedisStorage) Set(ctx context.Context, value []byte) error {
	if err := s.client.Set(ctx, s.key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Delete removes the key
func (s *RedisStorage) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", s.key, err)
	}
	return nil
}
