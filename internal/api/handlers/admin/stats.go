package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/api/apperr"
	"github.com/5w1tchy/strength-api/internal/metrics/analysisqueue"
)

const StatsCacheKey = "admin:stats"
const StatsCacheDuration = 30 * time.Second

type StatsResponse struct {
	analysisqueue.Stats
	DroppedEvents uint64 `json:"dropped_events"`
}

// GET /v1/admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Stats unavailable", "database is not configured")
		return
	}
	ctx := r.Context()

	if h.writeCached(ctx, w) {
		return
	}

	stats, err := h.Load(ctx, h.DB, time.Now())
	if err != nil {
		zap.L().Error("load stats failed", zap.Error(err))
		apperr.HandleDBError(w, r, err, "Failed to load stats")
		return
	}
	body, _ := json.Marshal(StatsResponse{Stats: stats, DroppedEvents: h.Queue.Dropped()})

	if h.RDB != nil {
		_ = h.RDB.SetEx(ctx, StatsCacheKey, body, StatsCacheDuration).Err()
	}
	writeRaw(w, "miss", body)
}

func (h *Handler) writeCached(ctx context.Context, w http.ResponseWriter) bool {
	if h.RDB == nil {
		return false
	}
	cached, err := h.RDB.Get(ctx, StatsCacheKey).Bytes()
	if err != nil || len(cached) == 0 {
		return false
	}
	writeRaw(w, "hit", cached)
	return true
}

func writeRaw(w http.ResponseWriter, cache string, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", cache)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
