// Package redisconnect builds the optional Redis client from env.
package redisconnect

import (
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotConfigured = errors.New("redis not configured")

// Options reads UPSTASH_REDIS_URL, falling back to REDIS_ADDR/USER/PASSWORD.
// REDIS_TLS=false disables TLS on the split-field path (local dev).
func Options() (*redis.Options, error) {
	if url := os.Getenv("UPSTASH_REDIS_URL"); url != "" {
		// e.g. rediss://default:<token>@host:port
		opt, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("invalid UPSTASH_REDIS_URL: %w", err)
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return opt, nil
	}

	addr := os.Getenv("REDIS_ADDR") // host:port (no scheme)
	if addr == "" {
		return nil, ErrNotConfigured
	}
	opt := &redis.Options{
		Addr:         addr,
		Username:     os.Getenv("REDIS_USER"),
		Password:     os.Getenv("REDIS_PASSWORD"),
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if os.Getenv("REDIS_TLS") != "false" {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opt, nil
}

func New() (*redis.Client, error) {
	opt, err := Options()
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}
