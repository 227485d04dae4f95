package session

import (
	"context"
	"errors"
	"time"
)

var (
	ErrEmptyPassword = errors.New("session: empty password")
	ErrDuplicate     = errors.New("session: password already in history")
	ErrHistoryFull   = errors.New("session: history is full")
)

// Entry is one history row. It never holds the password: Fingerprint is a
// keyed hash and Label a masked preview.
type Entry struct {
	ID             string    `json:"id"`
	Fingerprint    string    `json:"fingerprint"`
	Label          string    `json:"label"`
	Score          int       `json:"score"`
	EntropyBits    float64   `json:"entropyBits"`
	BruteForceTime string    `json:"bruteForceTime"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store keeps per-session history (append-only, insertion order) and the set
// of unlocked achievements. Append checks the limit and the fingerprint and
// inserts in one atomic step: it returns ErrHistoryFull when the session
// already holds limit entries (limit <= 0 means unbounded), then ErrDuplicate
// when the fingerprint is already present.
type Store interface {
	Append(ctx context.Context, sessionID string, e Entry, limit int) error
	List(ctx context.Context, sessionID string) ([]Entry, error)
	Count(ctx context.Context, sessionID string) (int, error)
	Unlock(ctx context.Context, sessionID string, names ...string) error
	Achievements(ctx context.Context, sessionID string) ([]string, error)
}
