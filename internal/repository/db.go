package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX es el subconjunto de pgxpool.Pool que usan los repositorios.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const (
	ConstraintUsersEmail   = "users_email_key"
	ConstraintUsersOAuthID = "users_oauth_id_key"
)

const pgUniqueViolation = "23505"

// ConstraintError describe una violacion de unicidad.
type ConstraintError struct {
	Constraint string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("unique constraint %q violated", e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return ErrDuplicate
}

// translateErr convierte errores de pgx en errores del paquete.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &ConstraintError{Constraint: pgErr.ConstraintName}
	}
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
