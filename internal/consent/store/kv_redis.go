package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores values as plain Redis strings without expiry.
type RedisKV struct {
	client redis.Cmdable
}

func NewRedisKV(client redis.Cmdable) *RedisKV {
	return &RedisKV{client: client}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := kv.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	if err := kv.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (kv *RedisKV) Remove(ctx context.Context, key string) error {
	if err := kv.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
