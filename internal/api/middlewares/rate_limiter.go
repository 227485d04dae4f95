package middlewares

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type KeyFunc func(r *http.Request) string

// PerIPKey keys limits by client IP.
func PerIPKey(prefix string) KeyFunc {
	return func(r *http.Request) string {
		ip := clientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		return prefix + ":" + ip
	}
}

func clientIP(r *http.Request) string {
	// X-Forwarded-For may hold a list: client, proxy1, proxy2...
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimits holds the env-tunable limiter settings.
type RateLimits struct {
	RatePerSecond float64
	Burst         int
	WindowLimit   int
	Window        time.Duration
}

// RateLimitsFromEnv reads RATE_LIMIT_RPS, RATE_LIMIT_BURST,
// RATE_LIMIT_WINDOW_MAX and RATE_LIMIT_WINDOW.
func RateLimitsFromEnv() RateLimits {
	rps := 5.0
	if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")), 64); err == nil && v > 0 {
		rps = v
	}
	return RateLimits{
		RatePerSecond: rps,
		Burst:         envInt("RATE_LIMIT_BURST", 20),
		WindowLimit:   envInt("RATE_LIMIT_WINDOW_MAX", 600),
		Window:        envDur("RATE_LIMIT_WINDOW", "10m"),
	}
}

// --------- Token Bucket (Redis + Lua) ---------

const tokenBucketLua = `
-- KEYS[1] = bucket key (hash with fields: tokens, ts)
-- ARGV[1] = rate per second, ARGV[2] = capacity
-- Returns: {allowed (1/0), remaining_tokens, retry_after_ms}
local key  = KEYS[1]
local rate = tonumber(ARGV[1])
local cap  = tonumber(ARGV[2])

local t = redis.call('TIME')
local now_ms = (tonumber(t[1]) * 1000) + math.floor(tonumber(t[2]) / 1000)

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts     = tonumber(data[2])
if tokens == nil then
  tokens = cap
  ts = now_ms
end

local delta_ms = now_ms - ts
if delta_ms > 0 then
  tokens = math.min(cap, tokens + (delta_ms / 1000.0) * rate)
end

local allowed = 0
local retry_after_ms = 0
if tokens >= 1.0 then
  tokens = tokens - 1.0
  allowed = 1
else
  retry_after_ms = math.ceil((1.0 - tokens) * 1000.0 / rate)
end

redis.call('HSET', key, 'tokens', tokens, 'ts', now_ms)
redis.call('PEXPIRE', key, math.ceil((cap / rate) * 1000.0))

return {allowed, math.floor(tokens), retry_after_ms}
`

type RedisTokenBucket struct {
	rdb      redis.Scripter
	keyFn    KeyFunc
	ratePerS float64
	burst    int
	script   *redis.Script
}

func NewRedisTokenBucket(rdb redis.Scripter, ratePerSecond float64, burst int, keyFn KeyFunc) *RedisTokenBucket {
	return &RedisTokenBucket{
		rdb:      rdb,
		keyFn:    keyFn,
		ratePerS: ratePerSecond,
		burst:    burst,
		script:   redis.NewScript(tokenBucketLua),
	}
}

func (tb *RedisTokenBucket) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := tb.keyFn(r)
		res, err := tb.script.Run(r.Context(), tb.rdb, []string{key},
			strconv.FormatFloat(tb.ratePerS, 'f', -1, 64),
			strconv.Itoa(tb.burst),
		).Int64Slice()
		if err != nil || len(res) != 3 {
			zap.L().Warn("token bucket unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Policy", "token-bucket")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(tb.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res[1], 10))

		if res[0] != 1 {
			sec := max((res[2]+999)/1000, 1)
			w.Header().Set("Retry-After", strconv.FormatInt(sec, 10))
			zap.L().Info("rate limited", zap.String("policy", "token-bucket"), zap.String("key", key), zap.Int64("retry_after_s", sec))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------- Sliding Window (Redis ZSET) ---------

type RedisSlidingWindow struct {
	rdb    redis.Cmdable
	keyFn  KeyFunc
	limit  int
	window time.Duration
}

func NewRedisSlidingWindow(rdb redis.Cmdable, limit int, window time.Duration, keyFn KeyFunc) *RedisSlidingWindow {
	return &RedisSlidingWindow{rdb: rdb, keyFn: keyFn, limit: limit, window: window}
}

func (sw *RedisSlidingWindow) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().UnixMilli()
		key := sw.keyFn(r)
		winMS := sw.window.Milliseconds()

		pipe := sw.rdb.TxPipeline()
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: strconv.FormatInt(now, 10) + ":" + randomSuffix()})
		pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(now-winMS, 10))
		countCmd := pipe.ZCard(ctx, key)
		pipe.PExpire(ctx, key, sw.window+time.Second)
		if _, err := pipe.Exec(ctx); err != nil {
			zap.L().Warn("sliding window unavailable, allowing request", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		count := int(countCmd.Val())

		w.Header().Set("X-RateLimit-Policy", "sliding-window")
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(sw.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, sw.limit-count)))

		if count > sw.limit {
			var retrySec int64 = 1
			if oldest, err := sw.rdb.ZRangeWithScores(ctx, key, 0, 0).Result(); err == nil && len(oldest) == 1 {
				ms := max(int64(oldest[0].Score)+winMS-now, 1000)
				retrySec = (ms + 999) / 1000
			}
			w.Header().Set("Retry-After", strconv.FormatInt(retrySec, 10))
			zap.L().Info("rate limited", zap.String("policy", "sliding-window"), zap.String("key", key), zap.Int64("retry_after_s", retrySec))
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func randomSuffix() string {
	return strconv.FormatInt(time.Now().UnixNano()%1_000_000, 36)
}
