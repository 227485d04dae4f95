package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/5w1tchy/strength-api/internal/api/apperr"
	jwtutil "github.com/5w1tchy/strength-api/internal/security/jwt"
)

type sessionIDKey struct{}

func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

func SessionIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey{}).(string)
	return v, ok && v != ""
}

// RequireSession verifies the Bearer session token and injects the session ID.
func RequireSession(iss *jwtutil.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "missing Authorization header")
				return
			}
			tokenStr, err := bearer(raw)
			if err != nil {
				apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid Authorization header")
				return
			}
			claims, err := iss.ParseSession(tokenStr)
			if err != nil {
				apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid or expired session")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), claims.Subject)))
		})
	}
}

// OptionalSession attaches the session ID when a valid Bearer is present and
// otherwise continues anonymously.
func OptionalSession(iss *jwtutil.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := bearer(r.Header.Get("Authorization"))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := iss.ParseSession(tokenStr)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), claims.Subject)))
		})
	}
}

func bearer(h string) (string, error) {
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", errors.New("no bearer")
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	if tok == "" {
		return "", errors.New("empty bearer")
	}
	return tok, nil
}
