package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-cache-api/internal/domain/entity"
	"github.com/oksasatya/user-cache-api/internal/domain/repository"
)

const (
	uniqueViolation       = "23505"
	invalidTextRepresents = "22P02"
)

const selectUserColumns = `SELECT id, name, email, password, created_at, updated_at FROM users`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.CreatedAt, u.UpdatedAt)

	created := *u
	if err := row.Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
		return nil, mapWriteError(err)
	}
	return &created, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, selectUserColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, selectUserColumns+` WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, selectUserColumns+` WHERE email = $1`, email)
}

// Update writes every mutable column of u to the row identified by id.
// The email is checked against other users first; the unique index is still authoritative.
func (r *UserRepository) Update(ctx context.Context, id string, u *entity.User) (*entity.User, error) {
	existing, err := r.GetByEmail(ctx, u.Email)
	switch {
	case err == nil && existing.ID != id:
		return nil, entity.ErrEmailAlreadyExists
	case err != nil && !errors.Is(err, entity.ErrUserNotFound):
		return nil, err
	}

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, password = $3, updated_at = $4
		WHERE id = $5
	`, u.Name, u.Email, u.Password, u.UpdatedAt, id)
	if err != nil {
		return nil, mapWriteError(err)
	}
	if res.RowsAffected() == 0 {
		return nil, entity.ErrUserNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if hasCode(err, invalidTextRepresents) {
			return entity.ErrUserNotFound
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, invalidTextRepresents) {
			return nil, entity.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// mapWriteError turns a unique email violation into the domain conflict error.
func mapWriteError(err error) error {
	if hasCode(err, uniqueViolation) {
		return entity.ErrEmailAlreadyExists
	}
	return err
}

// hasCode reports whether err carries the given SQLSTATE. Ids are uuid columns,
// so a malformed id surfaces as 22P02 rather than an empty result.
func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

var _ repository.UserRepository = (*UserRepository)(nil)
