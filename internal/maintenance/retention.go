package maintenance

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/store/dbx"
)

type RetentionConfig struct {
	EventsMaxAge time.Duration // analysis_events older than this are deleted
	KeepPerSess  int           // newest session_history rows kept per session
	LocalTime    string        // "HH:MM"
	TZ           string
}

func LoadRetentionConfig() RetentionConfig {
	days := 30
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv("RETENTION_EVENTS_DAYS"))); err == nil && v > 0 {
		days = v
	}
	keep := 50
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv("HISTORY_MAX_ENTRIES"))); err == nil && v > 0 {
		keep = v
	}
	at := strings.TrimSpace(os.Getenv("RETENTION_AT"))
	if at == "" {
		at = "03:00"
	}
	return RetentionConfig{
		EventsMaxAge: time.Duration(days) * 24 * time.Hour,
		KeepPerSess:  keep,
		LocalTime:    at,
		TZ:           strings.TrimSpace(os.Getenv("RETENTION_TZ")),
	}
}

const (
	qPruneEvents = `DELETE FROM analysis_events WHERE analyzed_at < $1`
	qPruneHist   = `
WITH ranked AS (
  SELECT seq, ROW_NUMBER() OVER (PARTITION BY session_id ORDER BY seq DESC) AS rn
  FROM session_history
)
DELETE FROM session_history sh
USING ranked r
WHERE sh.seq = r.seq
  AND r.rn > $1`
)

// RunOnce prunes both tables and reports the deleted row counts.
func RunOnce(ctx context.Context, db *sql.DB, cfg RetentionConfig, now time.Time) (events, history int64, err error) {
	res, err := dbx.Exec(ctx, db, qPruneEvents, now.Add(-cfg.EventsMaxAge))
	if err != nil {
		return 0, 0, err
	}
	events, _ = res.RowsAffected()

	res, err = dbx.Exec(ctx, db, qPruneHist, cfg.KeepPerSess)
	if err != nil {
		return events, 0, err
	}
	history, _ = res.RowsAffected()
	return events, history, nil
}

// parseClock reads "HH:MM", falling back to 03:00.
func parseClock(s string) (h, m int) {
	h, m = 3, 0
	if parts := strings.Split(s, ":"); len(parts) == 2 {
		if v, err := strconv.Atoi(parts[0]); err == nil && v >= 0 && v < 24 {
			h = v
		}
		if v, err := strconv.Atoi(parts[1]); err == nil && v >= 0 && v < 60 {
			m = v
		}
	}
	return h, m
}

// nextRun returns the first HH:MM in loc strictly after now.
func nextRun(now time.Time, h, m int, loc *time.Location) time.Time {
	now = now.In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// StartRetention runs RunOnce daily at cfg.LocalTime in cfg.TZ until ctx is done.
// Call once at startup: maintenance.StartRetention(ctx, db, maintenance.LoadRetentionConfig())
func StartRetention(ctx context.Context, db *sql.DB, cfg RetentionConfig) {
	if cfg.KeepPerSess <= 0 {
		cfg.KeepPerSess = 50
	}
	go func() {
		loc, err := time.LoadLocation(cfg.TZ)
		if err != nil {
			loc = time.Local
		}
		h, m := parseClock(cfg.LocalTime)
		log := zap.L().Named("retention")

		for {
			timer := time.NewTimer(time.Until(nextRun(time.Now(), h, m, loc)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				ev, hist, err := RunOnce(ctx, db, cfg, time.Now())
				if err != nil {
					log.Warn("prune failed", zap.Error(err))
					continue
				}
				log.Info("pruned", zap.Int64("analysis_events", ev), zap.Int64("session_history", hist))
			}
		}
	}()
}
