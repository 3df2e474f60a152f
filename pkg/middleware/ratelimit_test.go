package middleware

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/pkg/httputil"
)

func limitedHandler(rps float64, burst int) http.Handler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Session()(RateLimit(rps, burst, log)(ok))
}

func hit(h http.Handler, session string) *httptest.ResponseRecorder {
	return hitFrom(h, "192.0.2.1:4100", session)
}

func hitFrom(h http.Handler, remoteAddr, session string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.RemoteAddr = remoteAddr
	if session != "" {
		req.Header.Set(SessionIDHeader, session)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	h := limitedHandler(0.001, 2)

	assert.Equal(t, http.StatusOK, hit(h, "alice").Code)
	assert.Equal(t, http.StatusOK, hit(h, "alice").Code)

	rec := hit(h, "alice")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	var body httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, "RATE_LIMITED", body.Error.Code)
}

func TestRateLimit_BucketsArePerSession(t *testing.T) {
	h := limitedHandler(0.001, 1)

	assert.Equal(t, http.StatusOK, hit(h, "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "alice").Code)
	assert.Equal(t, http.StatusOK, hit(h, "bob").Code)
}

func TestRateLimit_MissingHeaderSharesHostBucket(t *testing.T) {
	h := limitedHandler(0.001, 1)

	allowed := 0
	for range 50 {
		if hit(h, "").Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, 1, allowed)

	assert.Equal(t, http.StatusTooManyRequests, hit(h, "a:b").Code, "unusable header falls back to the host")
	assert.Equal(t, http.StatusOK, hitFrom(h, "198.51.100.7:4100", "").Code, "other hosts are unaffected")
}

func TestRateLimit_RotatingSessionsHitHostCeiling(t *testing.T) {
	h := limitedHandler(0.001, 1)

	allowed := 0
	for i := range 50 {
		if hit(h, fmt.Sprintf("visitor-%d", i)).Code == http.StatusOK {
			allowed++
		}
	}
	assert.Equal(t, hostRateFactor, allowed)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := limitedHandler(0, 0)
	for range 50 {
		require.Equal(t, http.StatusOK, hit(h, "alice").Code)
	}
}

func TestLimiterSet_SweepsIdleEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	set := newLimiterSet(1, 1, time.Minute)
	set.now = func() time.Time { return now }

	set.get("alice")
	set.get("bob")
	assert.Equal(t, 2, set.len())

	now = now.Add(30 * time.Second)
	set.get("bob")

	now = now.Add(45 * time.Second)
	set.get("carol")
	assert.Equal(t, 2, set.len(), "alice idle past ttl is dropped, bob is kept")
}
