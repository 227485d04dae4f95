package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/store/dbx"
)

//go:embed schema.sql
var schema string

type SQL struct{ db *sql.DB }

func NewSQL(db *sql.DB) session.Store { return &SQL{db: db} }

// EnsureSchema creates the history tables if they are missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	return dbx.ExecScript(ctx, db, schema)
}

const (
	qInsertEntry = `INSERT INTO session_history (id, session_id, fingerprint, label, score, entropy_bits, brute_force_time, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	qListEntries = `SELECT id::text, fingerprint, label, score, entropy_bits, brute_force_time, created_at
FROM session_history WHERE session_id = $1 ORDER BY seq`
	qCountEntries = `SELECT COUNT(*) FROM session_history WHERE session_id = $1`
	qLockSession  = `SELECT pg_advisory_xact_lock(hashtext($1))`
	qUnlock       = `INSERT INTO session_achievements (session_id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	qAchievements = `SELECT name FROM session_achievements WHERE session_id = $1`
)

// Append serializes writers per session with a transaction-scoped advisory
// lock, so the count and the insert see the same history.
func (s *SQL) Append(ctx context.Context, sid string, e session.Entry, limit int) error {
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := dbx.Exec(ctx, tx, qLockSession, sid); err != nil {
			return fmt.Errorf("history: lock: %w", err)
		}
		if limit > 0 {
			var n int
			if err := dbx.Get(ctx, tx, qCountEntries, sid).Scan(&n); err != nil {
				return fmt.Errorf("history: count: %w", err)
			}
			if n >= limit {
				return session.ErrHistoryFull
			}
		}
		_, err := dbx.Exec(ctx, tx, qInsertEntry,
			e.ID, sid, e.Fingerprint, e.Label, e.Score, e.EntropyBits, e.BruteForceTime, e.CreatedAt)
		if err == nil {
			return nil
		}
		if errors.Is(dbx.MapPGError(err), dbx.ErrUniqueViolation) {
			return session.ErrDuplicate
		}
		return fmt.Errorf("history: insert: %w", err)
	})
}

func (s *SQL) List(ctx context.Context, sid string) ([]session.Entry, error) {
	rows, err := dbx.Query(ctx, s.db, qListEntries, sid)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	out := []session.Entry{}
	for rows.Next() {
		var e session.Entry
		if err := rows.Scan(&e.ID, &e.Fingerprint, &e.Label, &e.Score, &e.EntropyBits, &e.BruteForceTime, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQL) Count(ctx context.Context, sid string) (int, error) {
	var n int
	if err := dbx.Get(ctx, s.db, qCountEntries, sid).Scan(&n); err != nil {
		return 0, fmt.Errorf("history: count: %w", err)
	}
	return n, nil
}

func (s *SQL) Unlock(ctx context.Context, sid string, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, n := range names {
			if _, err := dbx.Exec(ctx, tx, qUnlock, sid, n); err != nil {
				return fmt.Errorf("history: unlock %q: %w", n, err)
			}
		}
		return nil
	})
}

func (s *SQL) Achievements(ctx context.Context, sid string) ([]string, error) {
	rows, err := dbx.Query(ctx, s.db, qAchievements, sid)
	if err != nil {
		return nil, fmt.Errorf("history: achievements: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
