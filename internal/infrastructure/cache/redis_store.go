package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/user-cache-api/internal/application"
	"github.com/oksasatya/user-cache-api/pkg/helpers"
)

// RedisStore keeps JSON-encoded values in Redis with per-key TTLs.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	return helpers.RedisGetJSON(ctx, s.rdb, key, dest)
}

func (s *RedisStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	return helpers.RedisSetJSON(ctx, s.rdb, key, value, ttl)
}

// Delete removes all keys in a single DEL.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	return helpers.RedisDel(ctx, s.rdb, keys...)
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	return s.rdb.Incr(ctx, key).Result()
}

var _ application.CacheStore = (*RedisStore)(nil)
