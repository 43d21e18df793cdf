package application

import (
	"context"
	"time"

	"github.com/oksasatya/user-cache-api/internal/domain/entity"
)

// CacheStore is a TTL key/value store holding JSON-encoded values.
// GetJSON reports false with a nil error on a miss.
type CacheStore interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// UserIndexer keeps a searchable copy of users outside the primary store.
type UserIndexer interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]*entity.User, error)
}

// EventPublisher delivers JSON messages to the user events queue.
type EventPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}
