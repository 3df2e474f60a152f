package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// State backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"STOREFRONT_HTTP_PORT" envDefault:"8020"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Catalog
	CatalogPath string `env:"CATALOG_PATH" envDefault:"data/catalog.json"`

	// State persistence
	StateBackend     string `env:"STATE_BACKEND" envDefault:"memory"`
	StateTTLHours    int    `env:"STATE_TTL_HOURS" envDefault:"720"`
	PersistTimeoutMs int    `env:"PERSIST_TIMEOUT_MS" envDefault:"2000"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"storefront_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"storefront"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`

	// Session behaviour
	CartHighlightMs    int `env:"CART_HIGHLIGHT_MS" envDefault:"2000"`
	SearchDebounceMs   int `env:"SEARCH_DEBOUNCE_MS" envDefault:"300"`
	PageSize           int `env:"PAGE_SIZE" envDefault:"20"`
	SessionIdleMinutes int `env:"SESSION_IDLE_MINUTES" envDefault:"30"`

	// Per-session request rate; 0 disables limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StateBackend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("STATE_BACKEND must be one of memory, redis, postgres, got %q", c.StateBackend)
	}
	if c.StateBackend == BackendPostgres && c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.CatalogPath == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		return fmt.Errorf("PAGE_SIZE must be between 1 and 100, got %d", c.PageSize)
	}
	if c.PersistTimeoutMs <= 0 {
		return fmt.Errorf("PERSIST_TIMEOUT_MS must be positive, got %d", c.PersistTimeoutMs)
	}
	if c.CartHighlightMs < 0 || c.SearchDebounceMs < 0 || c.SessionIdleMinutes < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// StateTTL is how long a backend keeps a session's state after its last save.
func (c *Config) StateTTL() time.Duration {
	return time.Duration(c.StateTTLHours) * time.Hour
}

// PersistTimeout bounds a single backend call.
func (c *Config) PersistTimeout() time.Duration {
	return time.Duration(c.PersistTimeoutMs) * time.Millisecond
}

// HighlightDuration is how long the last-added cart line stays highlighted.
func (c *Config) HighlightDuration() time.Duration {
	return time.Duration(c.CartHighlightMs) * time.Millisecond
}

// SearchDebounce is the quiet period before a search query is applied.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.SearchDebounceMs) * time.Millisecond
}

// SessionIdle is how long an unused session stays in memory. 0 keeps
// sessions until shutdown.
func (c *Config) SessionIdle() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}
