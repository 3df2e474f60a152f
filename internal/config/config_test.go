package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8020, cfg.HTTPPort)
	assert.Equal(t, BackendMemory, cfg.StateBackend)
	assert.Equal(t, "data/catalog.json", cfg.CatalogPath)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 2*time.Second, cfg.HighlightDuration())
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce())
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle())
	assert.Equal(t, 720*time.Hour, cfg.StateTTL())
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
}

func TestLoad_InvalidHTTPPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_UnknownStateBackend(t *testing.T) {
	t.Setenv("STATE_BACKEND", "mongo")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATE_BACKEND")
}

func TestLoad_RedisBackend(t *testing.T) {
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.prod:6380")
	t.Setenv("STATE_TTL_HOURS", "24")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StateBackend)
	assert.Equal(t, "redis.prod:6380", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.StateTTL())
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("PAGE_SIZE", "500")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAGE_SIZE")
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "2.0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
}

func TestLoad_KafkaBrokersList(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_NegativeDebounce(t *testing.T) {
	t.Setenv("SEARCH_DEBOUNCE_MS", "-1")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_RateLimitDisabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Zero(t, cfg.RateLimitRPS)
}

func TestLoad_NegativeRateLimit(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "-5")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "rate limit")
}
