package middlewares

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

type rtWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
	status      int
	bytes       int
}

func (w *rtWriter) stamp() {
	if !w.wroteHeader {
		w.Header().Set("X-Response-Time", time.Since(w.start).String())
		w.wroteHeader = true
	}
}

func (w *rtWriter) WriteHeader(code int) {
	w.status = code
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *rtWriter) Write(b []byte) (int, error) {
	w.stamp()
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// ResponseTime sets X-Response-Time and writes one access log line per
// request. Request bodies are never logged.
func ResponseTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &rtWriter{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
		next.ServeHTTP(rw, r)

		// nothing written (204/HEAD)
		if !rw.wroteHeader {
			rw.Header().Set("X-Response-Time", time.Since(rw.start).String())
		}
		zap.L().Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Int("bytes", rw.bytes),
			zap.Duration("took", time.Since(rw.start)),
			zap.String("request_id", GetRequestID(r)),
		)
	})
}
