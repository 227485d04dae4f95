package sqlconnect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNoDSN means DATABASE_URL is unset; callers treat the DB as optional.
var ErrNoDSN = errors.New("DATABASE_URL not set")

type PoolConfig struct {
	MaxOpen     int
	MaxIdle     int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

func PoolConfigFromEnv() PoolConfig {
	return PoolConfig{
		MaxOpen:     envInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdle:     envInt("DB_MAX_IDLE_CONNS", 10),
		MaxIdleTime: envDur("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		MaxLifetime: envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

func ConnectDB(ctx context.Context) (*sql.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, ErrNoDSN
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	Apply(db, PoolConfigFromEnv())
	return db, nil
}

func Apply(db *sql.DB, pc PoolConfig) {
	db.SetMaxOpenConns(pc.MaxOpen)
	db.SetMaxIdleConns(pc.MaxIdle)
	db.SetConnMaxIdleTime(pc.MaxIdleTime)
	db.SetConnMaxLifetime(pc.MaxLifetime)
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}
