package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// FastStore is the keyed fast tier: get/set with TTL, capped lists, hashes.
// Implemented by Redis in production; tests provide an in-memory fake.
// A zero TTL means "no expiration".
type FastStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// PushCapped prepends to a list, trims it to cap and refreshes its TTL.
	PushCapped(ctx context.Context, key, value string, cap int64, ttl time.Duration) error
	Range(ctx context.Context, key string, start, stop int64) ([]string, error)

	HGet(ctx context.Context, key, field string) (string, bool, error)
	HSet(ctx context.Context, key, field, value string) error

	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

var _ FastStore = &RedisStore{}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *RedisStore) PushCapped(ctx context.Context, key, value string, cap int64, ttl time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, cap-1)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Range(ctx context.Context, key string, start, stop int64) ([]string, error) {
	vals, err := s.rdb.LRange(ctx, key, start, stop).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return vals, err
}

func (s *RedisStore) HGet(ctx context.Context, key, field string) (string, bool, error) {
	val, err := s.rdb.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) HSet(ctx context.Context, key, field, value string) error {
	return s.rdb.HSet(ctx, key, field, value).Err()
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.rdb.Expire(ctx, key, ttl).Err()
}
