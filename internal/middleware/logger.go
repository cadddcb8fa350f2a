package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"interviewprep/internal/httputil"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// userIDHolder lets inner middleware report the caller back to the logger.
type userIDHolder struct{ id string }

// Logger writes one line per request.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			holder := &userIDHolder{}
			next.ServeHTTP(sw, r.WithContext(withUserIDHolder(r.Context(), holder)))

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http.request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", httputil.RequestIDFromContext(r.Context()),
				"user_id", holder.id,
			)
		})
	}
}

type userIDHolderKey struct{}

func withUserIDHolder(ctx context.Context, h *userIDHolder) context.Context {
	return context.WithValue(ctx, userIDHolderKey{}, h)
}

// reportUserID records the caller for the request log line, if one is written.
func reportUserID(ctx context.Context, id string) {
	if h, ok := ctx.Value(userIDHolderKey{}).(*userIDHolder); ok {
		h.id = id
	}
}
