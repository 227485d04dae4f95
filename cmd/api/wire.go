package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/metrics/analysisqueue"
	"github.com/5w1tchy/strength-api/internal/repository/redisconnect"
	"github.com/5w1tchy/strength-api/internal/repository/sqlconnect"
	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/storage/s3"
	"github.com/5w1tchy/strength-api/internal/store/history"
	"github.com/5w1tchy/strength-api/internal/strength"
	"github.com/5w1tchy/strength-api/internal/validate"
)

// connectRedis returns nil when Redis is not configured; a configured but
// unreachable Redis is fatal.
func connectRedis() (*redis.Client, error) {
	rdb, err := redisconnect.New()
	if errors.Is(err, redisconnect.ErrNotConfigured) {
		zap.L().Info("redis not configured; rate limits and redis history disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	zap.L().Info("connected to redis")
	return rdb, nil
}

// connectDB returns nil when DATABASE_URL is unset. Schemas are applied on
// connect so retention always finds both tables.
func connectDB(ctx context.Context) (*sql.DB, error) {
	db, err := sqlconnect.ConnectDB(ctx)
	if errors.Is(err, sqlconnect.ErrNoDSN) {
		zap.L().Info("database not configured; stats and sql history disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := history.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := analysisqueue.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	zap.L().Info("connected to database")
	return db, nil
}

// buildAnalyzer merges WORDLIST_FILE and the S3 object WORDLIST_S3_KEY into
// the embedded dictionary and applies STRENGTH_PARAMS_FILE.
func buildAnalyzer(ctx context.Context, store *s3.S3Client) (*strength.Analyzer, error) {
	var extra []*strength.Dictionary
	if path := os.Getenv("WORDLIST_FILE"); path != "" {
		d, err := strength.LoadDictionaryFile(path)
		if err != nil {
			return nil, err
		}
		extra = append(extra, d)
	}
	if key := strings.TrimSpace(os.Getenv("WORDLIST_S3_KEY")); key != "" {
		if store == nil {
			return nil, errors.New("WORDLIST_S3_KEY set but AWS_BUCKET is not")
		}
		raw, err := store.FetchObject(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("fetch wordlist: %w", err)
		}
		d, err := strength.ParseDictionary(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		extra = append(extra, d)
	}

	an, err := strength.Load(os.Getenv("STRENGTH_PARAMS_FILE"), extra...)
	if err != nil {
		return nil, err
	}
	zap.L().Info("analyzer ready", zap.Int("dictionary_entries", an.Dictionary().Len()),
		zap.Float64("guesses_per_second", an.Params().GuessesPerSecond))
	return an, nil
}

func historyStore(backend string, db *sql.DB, rdb *redis.Client) (session.Store, error) {
	switch backend {
	case "sql":
		if db == nil {
			return nil, errors.New("HISTORY_BACKEND=sql needs a database")
		}
		return history.NewSQL(db), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("HISTORY_BACKEND=redis needs redis")
		}
		ttl := 24 * time.Hour
		if d, err := time.ParseDuration(os.Getenv("SESSION_TTL")); err == nil && d > 0 {
			ttl = d
		}
		return history.NewRedis(rdb, ttl), nil
	default:
		return history.NewMemory(), nil
	}
}
