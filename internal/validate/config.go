package validate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var historyBackends = []string{"memory", "redis", "sql"}

// Env validates required env configuration. Fail-fast on bad config.
func Env() error {
	if len(os.Getenv("AUTH_JWT_SECRET")) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters")
	}
	if _, err := envDuration("SESSION_TTL", "24h"); err != nil {
		return fmt.Errorf("SESSION_TTL: %w", err)
	}
	if err := envMinUint("AUTH_CLOCK_SKEW_SEC", 0); err != nil {
		return fmt.Errorf("AUTH_CLOCK_SKEW_SEC: %w", err)
	}

	backend := HistoryBackend()
	if !slices.Contains(historyBackends, backend) {
		return fmt.Errorf("HISTORY_BACKEND must be one of %s", strings.Join(historyBackends, ", "))
	}
	if backend == "sql" && os.Getenv("DATABASE_URL") == "" {
		return errors.New("HISTORY_BACKEND=sql requires DATABASE_URL")
	}
	if backend == "redis" && os.Getenv("UPSTASH_REDIS_URL") == "" && os.Getenv("REDIS_ADDR") == "" {
		return errors.New("HISTORY_BACKEND=redis requires UPSTASH_REDIS_URL or REDIS_ADDR")
	}
	if err := envMinUint("HISTORY_MAX_ENTRIES", 1); err != nil {
		return fmt.Errorf("HISTORY_MAX_ENTRIES: %w", err)
	}
	if p := os.Getenv("HISTORY_PEPPER"); p != "" && len(p) < 16 {
		return errors.New("HISTORY_PEPPER must be at least 16 characters")
	}
	if err := envMinUint("MAX_PASSWORD_RUNES", 1); err != nil {
		return fmt.Errorf("MAX_PASSWORD_RUNES: %w", err)
	}

	// Argon2 lower bounds (only enforced if explicitly set)
	if err := envMinUint("ARGON2_MEMORY", 65536); err != nil { // >= 64MiB
		return fmt.Errorf("ARGON2_MEMORY: %w", err)
	}
	if err := envMinUint("ARGON2_ITER", 2); err != nil {
		return fmt.Errorf("ARGON2_ITER: %w", err)
	}
	if err := envMinUint("ARGON2_PAR", 1); err != nil {
		return fmt.Errorf("ARGON2_PAR: %w", err)
	}
	return nil
}

// HistoryBackend returns HISTORY_BACKEND lowercased, defaulting to memory.
func HistoryBackend() string {
	b := strings.ToLower(strings.TrimSpace(os.Getenv("HISTORY_BACKEND")))
	if b == "" {
		return "memory"
	}
	return b
}

// HardeningWarnings returns non-fatal warnings to log on startup.
func HardeningWarnings(appEnv string) []string {
	var warns []string

	if d, _ := envDuration("SESSION_TTL", "24h"); d > 7*24*time.Hour {
		warns = append(warns, fmt.Sprintf("SESSION_TTL=%s is > 7d; history outlives typical use", d))
	}
	if os.Getenv("HISTORY_PEPPER") == "" {
		warns = append(warns, "HISTORY_PEPPER not set; fingerprints are keyed with AUTH_JWT_SECRET and rotate with it")
	}
	if os.Getenv("ADMIN_KEY_HASH") == "" {
		warns = append(warns, "ADMIN_KEY_HASH not set; /v1/admin routes are disabled")
	}

	if strings.EqualFold(appEnv, "production") {
		if os.Getenv("ARGON2_MEMORY") == "" || os.Getenv("ARGON2_ITER") == "" {
			warns = append(warns, "ARGON2_* not explicitly set; using code defaults. Set strong values in production")
		}
		if HistoryBackend() == "memory" {
			warns = append(warns, "HISTORY_BACKEND=memory loses history on restart and is per-instance")
		}
		if u := os.Getenv("UPSTASH_REDIS_URL"); strings.HasPrefix(u, "redis://") {
			warns = append(warns, "UPSTASH_REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if os.Getenv("UPSTASH_REDIS_URL") == "" && os.Getenv("REDIS_ADDR") != "" &&
			(os.Getenv("REDIS_PASSWORD") == "" || os.Getenv("REDIS_USER") == "") {
			warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
		}
		if slices.Contains(strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ","), "*") {
			warns = append(warns, "CORS_ALLOWED_ORIGINS contains *; any site can call the API from a browser")
		}
		if os.Getenv("SENTRY_DSN") == "" {
			warns = append(warns, "SENTRY_DSN not set; panics are only logged")
		}
	}
	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(rdb redis.Cmdable, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return rdb.Ping(ctx).Err()
}

// --- helpers ---

func envDuration(key, def string) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		s = def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

func envMinUint(key string, min uint64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil // unset -> code defaults apply elsewhere
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("not a number: %v", err)
	}
	if n < min {
		return fmt.Errorf("must be >= %d", min)
	}
	return nil
}
