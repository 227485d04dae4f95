package middlewares

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// OriginsFromEnv reads CORS_ALLOWED_ORIGINS (comma separated).
func OriginsFromEnv() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return defaultOrigins
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func Cors(origins []string) func(http.Handler) http.Handler {
	allowAll := slices.Contains(origins, "*")
	allowed := func(o string) bool { return allowAll || slices.Contains(origins, o) }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && !allowed(origin) {
				zap.L().Info("cors blocked", zap.String("origin", origin), zap.String("method", r.Method), zap.String("path", r.URL.Path))
				http.Error(w, "Origin not allowed", http.StatusForbidden)
				return
			}

			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, X-Admin-Key")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Max-Age", "3600")
			w.Header().Set("Access-Control-Expose-Headers",
				"X-Request-ID, X-RateLimit-Policy, X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After, X-Response-Time")

			if r.Method == http.MethodOptions {
				w.Header().Add("Vary", "Access-Control-Request-Method")
				w.Header().Add("Vary", "Access-Control-Request-Headers")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
