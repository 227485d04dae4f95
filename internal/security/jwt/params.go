package jwtutil

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Secret     []byte
	ClockSkew  time.Duration
	SessionTTL time.Duration
}

// LoadConfig reads AUTH_JWT_SECRET, AUTH_CLOCK_SKEW_SEC and SESSION_TTL.
// validate.Env rejects short secrets before this is used in the server.
func LoadConfig() Config {
	return Config{
		Secret:     []byte(os.Getenv("AUTH_JWT_SECRET")),
		ClockSkew:  time.Duration(parseInt("AUTH_CLOCK_SKEW_SEC", 60)) * time.Second,
		SessionTTL: parseDuration("SESSION_TTL", "24h"),
	}
}

func parseInt(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func parseDuration(key, def string) time.Duration {
	s := def
	if v := os.Getenv(key); v != "" {
		s = v
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(def)
	}
	return d
}
