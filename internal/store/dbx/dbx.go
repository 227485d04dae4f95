package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Queryer/Execer/Getter let these helpers work with *sql.DB and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
type Getter interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func Query(ctx context.Context, q Queryer, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, query, args...)
}
func Exec(ctx context.Context, e Execer, query string, args ...any) (sql.Result, error) {
	return e.ExecContext(ctx, query, args...)
}
func Get(ctx context.Context, g Getter, query string, args ...any) *sql.Row {
	return g.QueryRowContext(ctx, query, args...)
}

// WithinTx runs fn in a transaction (commit on nil, rollback on error).
func WithinTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ExecScript runs a semicolon-separated DDL script statement by statement.
// Statements must not contain literal semicolons.
func ExecScript(ctx context.Context, e Execer, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := e.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec script: %w", err)
		}
	}
	return nil
}

var (
	ErrUniqueViolation = errors.New("unique violation")
	ErrCheckViolation  = errors.New("check violation")
)

// MapPGError wraps well-known SQLSTATEs in sentinel errors; the original
// *pgconn.PgError stays reachable through errors.As.
func MapPGError(err error) error {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return err
	}
	switch pg.Code {
	case "23505":
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	case "23514":
		return fmt.Errorf("%w: %w", ErrCheckViolation, err)
	}
	return err
}
