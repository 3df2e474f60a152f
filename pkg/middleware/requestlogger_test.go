package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/pkg/logger"
)

func newTestLogger(w *bytes.Buffer) *slog.Logger {
	return logger.NewWithWriter("storefront-test", "info", w)
}

// logOnce runs a request through RequestLogger and returns the single JSON
// line the handler logs.
func logOnce(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	handler := RequestLogger(newTestLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("handled")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRequestLogger_StoresLoggerInContext(t *testing.T) {
	base := logger.Discard()
	var got *slog.Logger
	handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	assert.NotSame(t, slog.Default(), got)
}

func TestRequestLogger_IncludesCorrelationAndSession(t *testing.T) {
	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	ctx = logger.WithSessionID(ctx, "sess-1")
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	assert.Equal(t, "corr-1", out["correlation_id"])
	assert.Equal(t, "sess-1", out["session_id"])
	assert.Equal(t, "storefront-test", out["service"])
}

func TestRequestLogger_IncludesUserID(t *testing.T) {
	ctx := logger.WithUserID(context.Background(), "user-7")
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, "user-7", out["user_id"])
}

func TestRequestLogger_IncludesTraceFields(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])
}

func TestRequestLogger_OmitsAbsentFields(t *testing.T) {
	out := logOnce(t, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, k := range []string{"user_id", "session_id", "correlation_id", "trace_id"} {
		_, ok := out[k]
		assert.False(t, ok, k)
	}
}

func TestRequestLogger_IncludesMethodAndPath(t *testing.T) {
	out := logOnce(t, httptest.NewRequest(http.MethodPatch, "/api/v1/filters", nil))

	assert.Equal(t, http.MethodPatch, out["method"])
	assert.Equal(t, "/api/v1/filters", out["path"])
}
