package middlewares

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/api/apperr"
)

// Recovery turns panics into a 500 problem, logs the stack and reports the
// panic to Sentry (a no-op when Sentry is not initialised).
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			rid := GetRequestID(r)
			if rid == "" {
				rid = "unknown"
			}
			zap.L().Error("panic recovered",
				zap.String("request_id", rid),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("panic", fmt.Sprint(rec)),
				zap.ByteString("stack", debug.Stack()),
			)

			hub := sentry.CurrentHub().Clone()
			hub.Scope().SetTag("request_id", rid)
			hub.Scope().SetRequest(r)
			hub.Recover(rec)

			apperr.Write(w, r, apperr.Problem{Status: http.StatusInternalServerError, Title: "Internal Server Error"})
		}()
		next.ServeHTTP(w, r)
	})
}
