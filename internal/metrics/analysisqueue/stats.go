package analysisqueue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/5w1tchy/strength-api/internal/store/dbx"
)

// Stats aggregates analysis_events for the admin dashboard.
type Stats struct {
	Total       int64          `json:"total"`
	Last24h     int64          `json:"last_24h"`
	AvgScore    float64        `json:"avg_score"`
	AvgEntropy  float64        `json:"avg_entropy_bits"`
	ScoreBands  map[string]int `json:"score_bands"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// score bands follow the UI strength meter
const qStats = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE analyzed_at >= $1),
  COALESCE(AVG(score), 0),
  COALESCE(AVG(entropy_bits), 0),
  COUNT(*) FILTER (WHERE score < 40),
  COUNT(*) FILTER (WHERE score >= 40 AND score < 60),
  COUNT(*) FILTER (WHERE score >= 60 AND score < 80),
  COUNT(*) FILTER (WHERE score >= 80)
FROM analysis_events`

func LoadStats(ctx context.Context, db *sql.DB, now time.Time) (Stats, error) {
	var (
		s                           Stats
		weak, fair, good, excellent int
	)
	err := dbx.Get(ctx, db, qStats, now.Add(-24*time.Hour)).
		Scan(&s.Total, &s.Last24h, &s.AvgScore, &s.AvgEntropy, &weak, &fair, &good, &excellent)
	if err != nil {
		return Stats{}, fmt.Errorf("analysis stats: %w", err)
	}
	s.ScoreBands = map[string]int{"weak": weak, "fair": fair, "good": good, "excellent": excellent}
	s.GeneratedAt = now.UTC()
	return s, nil
}
