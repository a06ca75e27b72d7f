package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"rwa-backend/internal/db"
)

// PostgresStore implements Store on a pgx pool. Writes that carry an audit
// builder run in one transaction with their activity rows.
type PostgresStore struct {
	DB *db.Postgres
}

func NewPostgresStore(pg *db.Postgres) PostgresStore {
	return PostgresStore{DB: pg}
}

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s PostgresStore) Health(ctx context.Context) error {
	return s.DB.Health(ctx)
}

func (s PostgresStore) Close() {
	s.DB.Close()
}

func (s PostgresStore) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.DB.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// notFound maps pgx.ErrNoRows to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// conflict maps unique violations to ErrConflict.
func conflict(err error) error {
	if db.IsUniqueViolation(err) {
		return ErrConflict
	}
	return err
}
