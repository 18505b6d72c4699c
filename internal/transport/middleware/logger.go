package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/phoneshop-backend/pkg/ctxutil"
)

// Logger writes one http.request record per request. Client errors are logged
// at WARN so rejected sales and denied access stand out from normal traffic.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			requestID := ctxutil.RequestIDFromCtx(r.Context())
			userID := loggedUser(r, sw)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", duration),
				slog.String("request_id", requestID),
			}
			if userID > 0 {
				attrs = append(attrs, slog.Int64("user_id", userID))
			}

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

// loggedUser prefers the id recorded by inner handlers, since Auth runs inside
// Logger and its context is not visible here.
func loggedUser(r *http.Request, sw *statusWriter) int64 {
	if sw.userID > 0 {
		return sw.userID
	}
	id, _ := ctxutil.UserIDFromCtx(r.Context())
	return id
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	userID      int64
}

// SetUserID lets Auth report the resolved caller back to Logger.
func (w *statusWriter) SetUserID(id int64) {
	w.userID = id
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
