package middlewares

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/api/apperr"
	"github.com/5w1tchy/strength-api/internal/security/password"
)

const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey checks the X-Admin-Key header against an argon2id PHC
// string (ADMIN_KEY_HASH). An empty phc disables the guarded routes.
func RequireAdminKey(h *password.Hasher, phc string) func(http.Handler) http.Handler {
	phc = strings.TrimSpace(phc)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if phc == "" {
				apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Admin disabled", "ADMIN_KEY_HASH is not set")
				return
			}
			key := r.Header.Get(AdminKeyHeader)
			if key == "" {
				apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "missing admin key")
				return
			}
			ok, rehash, err := h.Verify(key, phc)
			if err != nil {
				zap.L().Error("admin key hash unreadable", zap.Error(err))
				apperr.WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "")
				return
			}
			if !ok {
				zap.L().Warn("admin key rejected", zap.String("ip", clientIP(r)), zap.String("request_id", GetRequestID(r)))
				apperr.WriteStatus(w, r, http.StatusForbidden, "Forbidden", "")
				return
			}
			if rehash {
				zap.L().Info("admin key hash uses weaker argon2 params; run pwcheck hash-key to refresh")
			}
			next.ServeHTTP(w, r)
		})
	}
}
