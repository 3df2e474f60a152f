package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/logger"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const storefrontKey contextKey = "storefront"

// WithStorefront loads the storefront of the session resolved by
// middleware.Session and stores it in the request context.
func WithStorefront(sessions *session.Manager, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sf, err := sessions.Get(r.Context(), logger.SessionIDFromContext(r.Context()))
			if err != nil {
				httputil.WriteError(w, r, err, l)
				return
			}
			ctx := context.WithValue(r.Context(), storefrontKey, sf)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// storefrontFrom returns the storefront stored by WithStorefront.
func storefrontFrom(r *http.Request) *session.Storefront {
	sf, _ := r.Context().Value(storefrontKey).(*session.Storefront)
	return sf
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
