// Package middleware holds HTTP middleware shared by the modelrun server.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jguan/modelrun/pkg/unit"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Logging writes one structured line per request. 4xx responses log at warn
// and 5xx at error.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(rw, r)

			if logger == nil {
				return
			}
			if rw.statusCode == 0 {
				rw.statusCode = http.StatusOK
			}

			logAttrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int("bytes", rw.bytes),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
			}

			requestID := chimw.GetReqID(r.Context())
			if requestID == "" {
				requestID = unit.GetRequestID(r.Context())
			}
			if requestID != "" {
				logAttrs = append(logAttrs, slog.String("request_id", requestID))
			}
			if traceID := unit.GetTraceID(r.Context()); traceID != "" {
				logAttrs = append(logAttrs, slog.String("trace_id", traceID))
			}

			logLevel := slog.LevelInfo
			if rw.statusCode >= 400 {
				logLevel = slog.LevelWarn
			}
			if rw.statusCode >= 500 {
				logLevel = slog.LevelError
			}

			logger.LogAttrs(r.Context(), logLevel, "HTTP request", logAttrs...)
		})
	}
}
