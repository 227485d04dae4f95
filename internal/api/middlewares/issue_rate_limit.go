package middlewares

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SessionIssueLimit caps session creation per IP with a fixed Redis window
// (SESSION_ISSUE_MAX per SESSION_ISSUE_WINDOW, default 20 per 10m).
// A nil client or missing IP fails open.
func SessionIssueLimit(rdb redis.Cmdable) func(http.Handler) http.Handler {
	limit := envInt("SESSION_ISSUE_MAX", 20)
	win := envDur("SESSION_ISSUE_WINDOW", "10m")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if ip == "" || rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := "rl:session:" + ip
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				zap.L().Warn("session issue limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, win).Err()
			}
			if n > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(win.Seconds())))
				http.Error(w, "too many sessions", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envDur(k, def string) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	d, _ := time.ParseDuration(def)
	return d
}
