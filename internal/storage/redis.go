package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"routineshell/pkg/routinetypes"
)

// RedisSlot stores slots as plain redis strings without expiry.
type RedisSlot struct {
	client *redis.Client
	prefix string
}

// NewRedisSlot creates a RedisSlot. Keys are stored as prefix+key.
func NewRedisSlot(client *redis.Client, prefix string) *RedisSlot {
	return &RedisSlot{client: client, prefix: prefix}
}

// Get implements Slot.
func (s *RedisSlot) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", routinetypes.ErrSlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set implements Slot.
func (s *RedisSlot) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close implements Slot.
func (s *RedisSlot) Close() error {
	return s.client.Close()
}
