package repository

import (
	"context"

	"github.com/oksasatya/user-cache-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookups by id or email return entity.ErrUserNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, id string, u *entity.User) (*entity.User, error)
	Delete(ctx context.Context, id string) error
}
