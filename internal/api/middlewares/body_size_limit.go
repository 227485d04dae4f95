package middlewares

import (
	"net/http"
	"os"
	"strconv"
)

// DefaultBodyLimit covers the largest password the API accepts with room for JSON.
const DefaultBodyLimit int64 = 64 * 1024

// BodyLimitFromEnv reads MAX_BODY_SIZE in bytes.
func BodyLimitFromEnv() int64 {
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return DefaultBodyLimit
}

func BodySizeLimit(limit int64) func(http.Handler) http.Handler {
	if limit <= 0 {
		limit = DefaultBodyLimit
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// only methods that carry bodies
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
