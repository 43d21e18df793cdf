package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/user-cache-api/internal/domain/entity"
)

func TestMapWriteError(t *testing.T) {
	unique := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_key"}
	if err := mapWriteError(fmt.Errorf("insert: %w", unique)); !errors.Is(err, entity.ErrEmailAlreadyExists) {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}

	other := &pgconn.PgError{Code: "23502"}
	if err := mapWriteError(other); !errors.Is(err, other) {
		t.Fatalf("expected original error, got %v", err)
	}

	plain := errors.New("connection reset")
	if err := mapWriteError(plain); err != plain {
		t.Fatalf("expected passthrough, got %v", err)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("scan: %w", &pgconn.PgError{Code: invalidTextRepresents})
	if !hasCode(err, invalidTextRepresents) {
		t.Fatalf("expected 22P02 to be detected")
	}
	if hasCode(err, uniqueViolation) {
		t.Fatalf("unexpected match for 23505")
	}
	if hasCode(errors.New("boom"), uniqueViolation) {
		t.Fatalf("plain errors carry no SQLSTATE")
	}
}
