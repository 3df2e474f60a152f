package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/storefront/pkg/logger"
)

// RequestLogger stores a per-request logger in the context. It carries the
// request method and path plus whatever of correlation_id, session_id,
// user_id, trace_id and span_id is known when the middleware runs, so mount
// it after RequestLogging, Session and Tracing. Handlers and stores pick it up
// with logger.FromContext.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.WithContext(ctx, base).With(
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r.WithContext(logger.NewContext(ctx, l)))
		})
	}
}
