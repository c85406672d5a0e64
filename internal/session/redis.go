package session

import (
	"context"
	"fmt"
	"time"
)

const redisKeyPrefix = "session:"

// JSONCache описывает методы кеша, которые нужны RedisStore.
type JSONCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// RedisStore хранит сессии в redis, по одному JSON-объекту на сессию.
type RedisStore struct {
	cache JSONCache
}

// NewRedisStore создаёт хранилище поверх cache.
func NewRedisStore(cache JSONCache) *RedisStore {
	return &RedisStore{cache: cache}
}

// Load читает значения сессии.
func (s *RedisStore) Load(ctx context.Context, id string) (map[string]string, error) {
	const op = "session.RedisStore.Load"

	var values map[string]string
	found, err := s.cache.Get(ctx, redisKeyPrefix+id, &values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if values == nil {
		values = make(map[string]string)
	}
	return values, nil
}

// Save записывает значения сессии с TTL.
func (s *RedisStore) Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error {
	const op = "session.RedisStore.Save"
	if err := s.cache.Set(ctx, redisKeyPrefix+id, values, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Destroy удаляет сессию из redis.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	const op = "session.RedisStore.Destroy"
	if err := s.cache.Invalidate(ctx, redisKeyPrefix+id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
