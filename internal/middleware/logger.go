package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/widget-dashboard/pkg/logger"
)

type loggerMiddleware struct {
	Log       *slog.Logger
	SessionID string
}

func NewLoggerMiddleware(log *slog.Logger, sessionID string) *loggerMiddleware {
	return &loggerMiddleware{Log: log, SessionID: sessionID}
}

// LoggerMiddleware puts a request-scoped logger in the context and logs one
// line per request once the handler returns. Mount it after RequestID.
func (m *loggerMiddleware) LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := chimiddleware.GetReqID(r.Context())

		enrichedLogger := m.Log.With(
			"request_id", requestID,
			"session", m.SessionID,
			"method", r.Method,
			"path", r.URL.Path,
		)
		ctx := logger.ToContext(r.Context(), enrichedLogger)

		if !logger.IsDebugEnabled(ctx) {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		enrichedLogger.Debug("request completed",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
