package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/pkg/logger"
)

// SessionIDHeader identifies the visitor whose storefront state a request
// reads or mutates.
const SessionIDHeader = "X-Session-ID"

const maxSessionIDLength = 128

// Session resolves the visitor session from the X-Session-ID header and
// stores it in the request context. Requests without a usable header are
// assigned a fresh random ID, which is echoed back so the client can reuse it.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(SessionIDHeader))
			if !validSessionID(id) {
				id = uuid.NewString()
			}
			w.Header().Set(SessionIDHeader, id)
			next.ServeHTTP(w, r.WithContext(logger.WithSessionID(r.Context(), id)))
		})
	}
}

// validSessionID accepts short tokens made of letters, digits, '-' and '_'.
// Session IDs end up in persistence keys, so separators are rejected.
func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
