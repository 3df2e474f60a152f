package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/utafrali/storefront/pkg/httputil"
)

const limiterIdleTTL = 3 * time.Minute

// hostRateFactor scales the per-session rate into the ceiling shared by all
// sessions coming from one client address.
const hostRateFactor = 5

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet hands out one token bucket per visitor. Entries unused for
// longer than ttl are swept on access, at most once per ttl.
type limiterSet struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterSet(rps float64, burst int, ttl time.Duration) *limiterSet {
	return &limiterSet{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.ttl {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > s.ttl {
				delete(s.entries, k)
			}
		}
		s.lastSweep = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (s *limiterSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// RateLimit enforces a token bucket per visitor session named by a valid
// X-Session-ID header, or per client address when the header is missing or
// unusable. Every client address also has a ceiling of hostRateFactor times
// the session rate, so rotating session IDs cannot escape the limit.
// Requests over a limit get 429 RATE_LIMITED. A non-positive rps disables
// limiting.
func RateLimit(rps float64, burst int, log *slog.Logger) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	sessions := newLimiterSet(rps, burst, limiterIdleTTL)
	hosts := newLimiterSet(rps*hostRateFactor, burst*hostRateFactor, limiterIdleTTL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := remoteHost(r)
			key := "host:" + host
			if id := strings.TrimSpace(r.Header.Get(SessionIDHeader)); validSessionID(id) {
				key = "session:" + id
			}

			if !hosts.get(host).Allow() || !sessions.get(key).Allow() {
				log.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("visitor", key),
					slog.String("host", host),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Retry-After", "1")
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "RATE_LIMITED",
						Message: "too many requests",
					},
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
