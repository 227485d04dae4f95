package admin

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/strength-api/internal/metrics/analysisqueue"
)

// StatsLoader reads aggregate analysis stats.
type StatsLoader func(ctx context.Context, db *sql.DB, now time.Time) (analysisqueue.Stats, error)

type Handler struct {
	DB    *sql.DB
	RDB   redis.Cmdable // optional stats cache
	Queue *analysisqueue.Queue
	Load  StatsLoader
}

func NewHandler(db *sql.DB, rdb redis.Cmdable, q *analysisqueue.Queue) *Handler {
	return &Handler{DB: db, RDB: rdb, Queue: q, Load: analysisqueue.LoadStats}
}
