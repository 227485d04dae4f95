package middlewares

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const headerRequestID = "X-Request-ID"

type ridKey struct{}

// Inbound IDs from a proxy are kept only if they are safe to log verbatim.
var inboundRID = regexp.MustCompile(`^[A-Za-z0-9_.\-]{1,64}$`)

// RequestID tags each request with an ID that ends up in access logs, problem
// bodies and the response header. A missing or malformed inbound ID is
// replaced with a UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if !inboundRID.MatchString(id) {
			id = uuid.NewString()
			r.Header.Set(headerRequestID, id)
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ridKey{}, id)))
	})
}

// GetRequestID falls back to the raw header when RequestID did not run.
func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(ridKey{}).(string); ok {
		return id
	}
	return r.Header.Get(headerRequestID)
}
