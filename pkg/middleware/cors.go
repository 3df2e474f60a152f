package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig controls which browser origins may call the storefront API.
type CORSConfig struct {
	// AllowedOrigins lists exact origins. "*" allows any origin.
	AllowedOrigins []string

	// AllowCredentials lets browsers send cookies. Credentials are never
	// combined with a literal "*" origin; the request origin is echoed instead.
	AllowCredentials bool

	// MaxAge is how long in seconds a preflight answer may be cached.
	MaxAge int

	// Environment "development" allows any origin regardless of the list.
	Environment string
}

// DefaultCORSConfig allows any origin, as used during development.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		MaxAge:         3600,
		Environment:    "development",
	}
}

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
	}, ", ")
	corsHeaders = strings.Join([]string{"Accept", "Content-Type", CorrelationIDHeader, SessionIDHeader}, ", ")
	corsExposed = strings.Join([]string{CorrelationIDHeader, SessionIDHeader}, ", ")
)

type corsPolicy struct {
	anyOrigin   bool
	origins     []string
	credentials bool
	maxAge      string
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is refused.
func (p corsPolicy) allowedOrigin(origin string) string {
	switch {
	case p.anyOrigin && p.credentials && origin != "":
		return origin
	case p.anyOrigin:
		return "*"
	case origin != "" && slices.Contains(p.origins, origin):
		return origin
	}
	return ""
}

// CORS answers preflight requests and decorates responses with the CORS
// headers the storefront API needs, including exposure of the session and
// correlation id headers.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}
	p := corsPolicy{
		anyOrigin:   cfg.Environment == "development" || slices.Contains(cfg.AllowedOrigins, "*"),
		origins:     cfg.AllowedOrigins,
		credentials: cfg.AllowCredentials,
		maxAge:      strconv.Itoa(maxAge),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if allow := p.allowedOrigin(r.Header.Get("Origin")); allow != "" {
				h.Set("Access-Control-Allow-Origin", allow)
				if allow != "*" {
					h.Add("Vary", "Origin")
				}
				if p.credentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}
			h.Set("Access-Control-Expose-Headers", corsExposed)

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				h.Set("Access-Control-Max-Age", p.maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
