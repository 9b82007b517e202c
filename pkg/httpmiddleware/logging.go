package httpmiddleware

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InjectLogger stores lg as the base context logger of every request, so
// handlers can fetch it with zctx.From.
func InjectLogger(lg *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(zctx.Base(r.Context(), lg)))
		})
	}
}

// LogRequests logs one line per request with its route, status and
// duration. Server errors are logged at error level, client errors at warn.
func LogRequests(find RouteFinder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.code()
			level := zapcore.DebugLevel
			switch {
			case status >= http.StatusInternalServerError:
				level = zapcore.ErrorLevel
			case status >= http.StatusBadRequest:
				level = zapcore.WarnLevel
			}
			zctx.From(r.Context()).Log(level, "Request",
				zap.String("method", r.Method),
				zap.String("route", find(r)),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", rec.bytes),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
