package middleware

import (
	"net/http"
	"time"

	"eventboard-go/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request and puts a request-scoped logger
// into the context for handlers that want it.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			reqLog := log.With("request_id", requestID(r))

			next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), reqLog)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(started),
			}
			if status >= http.StatusInternalServerError {
				reqLog.Warn("http: request", args...)
				return
			}
			reqLog.Debug("http: request", args...)
		})
	}
}

func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}
