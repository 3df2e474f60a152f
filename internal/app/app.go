package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/persist"
	memorybackend "github.com/utafrali/storefront/internal/persist/memory"
	postgresbackend "github.com/utafrali/storefront/internal/persist/postgres"
	redisbackend "github.com/utafrali/storefront/internal/persist/redis"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/internal/session"
	"github.com/utafrali/storefront/migrations"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	pool           *pgxpool.Pool
	producer       *pkgkafka.Producer
	sessions       *session.Manager
	httpServer     *http.Server
	tracerShutdown tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{
		cfg:            cfg,
		logger:         logger,
		tracerShutdown: tracerShutdown,
	}

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded",
		slog.String("path", cfg.CatalogPath),
		slog.Int("products", cat.Len()),
	)

	healthHandler := health.NewHandler(3 * time.Second)

	backend, err := a.openBackend(ctx, healthHandler)
	if err != nil {
		a.closeClients()
		return nil, err
	}

	// Events are optional; without Kafka orders are only kept in session state.
	var publisher service.OrderPublisher = event.Nop{}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, logger)
		healthHandler.Register("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	adapter := persist.NewAdapter(backend, logger, cfg.PersistTimeout())
	a.sessions = session.NewManager(cat, adapter, logger, session.Options{
		HighlightDuration: cfg.HighlightDuration(),
		SearchDebounce:    cfg.SearchDebounce(),
		PageSize:          cfg.PageSize,
	})
	checkout := service.NewCheckoutService(cat, publisher, logger)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins
	cors.Environment = cfg.Environment

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Catalog:  cat,
		Sessions: a.sessions,
		Checkout: checkout,
		Health:   healthHandler,
		CORS:     cors,
		Logger:   logger,

		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// openBackend connects the configured state backend and registers its
// health check. Remote backends sit behind a circuit breaker.
func (a *App) openBackend(ctx context.Context, hh *health.Handler) (persist.Backend, error) {
	cfg := a.cfg

	switch cfg.StateBackend {
	case config.BackendRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.rdb = rdb
		a.logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

		backend := redisbackend.New(rdb, cfg.StateTTL())
		hh.Register("redis", backend.Ping)
		return persist.NewBreaker(backend, persist.DefaultBreakerConfig("redis"), a.logger), nil

	case config.BackendPostgres:
		pgCfg := database.DefaultPostgresConfig()
		pgCfg.Host = cfg.PostgresHost
		pgCfg.Port = cfg.PostgresPort
		pgCfg.User = cfg.PostgresUser
		pgCfg.Password = cfg.PostgresPass
		pgCfg.DBName = cfg.PostgresDB
		pgCfg.SSLMode = cfg.PostgresSSL

		pool, err := database.NewPostgresPool(ctx, pgCfg, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		a.logger.Info("connected to PostgreSQL",
			slog.String("host", cfg.PostgresHost),
			slog.Int("port", cfg.PostgresPort),
			slog.String("database", cfg.PostgresDB),
		)

		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
			a.logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
		}

		if err := database.RunMigrations(ctx, pool, migrations.FS, a.logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		a.logger.Info("database migrations completed")

		tracer := database.QueryTracer{
			SlowThreshold: time.Duration(cfg.SlowQueryThresholdMs) * time.Millisecond,
			Logger:        a.logger,
		}
		hh.Register("postgres", pool.Ping)
		backend := postgresbackend.New(pool, tracer)
		return persist.NewBreaker(backend, persist.DefaultBreakerConfig("postgres"), a.logger), nil

	default:
		a.logger.Info("using in-memory state backend")
		return memorybackend.New(), nil
	}
}

// Run starts the HTTP server and the idle session sweeper, then blocks until
// the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if idle := a.cfg.SessionIdle(); idle > 0 {
		go a.runIdleEviction(ctx, idle)
	}

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// runIdleEviction closes sessions nobody has touched for maxIdle. Their
// state stays in the backend and is hydrated again on the next request.
func (a *App) runIdleEviction(ctx context.Context, maxIdle time.Duration) {
	interval := maxIdle / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.sessions.EvictIdle(maxIdle); n > 0 {
				a.logger.Info("idle sessions evicted",
					slog.Int("evicted", n),
					slog.Int("active", a.sessions.Len()),
				)
			}
		}
	}
}

// Shutdown gracefully stops all components in order: HTTP server, sessions
// (flushing pending timers), tracer, then clients.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.sessions.CloseAll()

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	errs = append(errs, a.closeClients())

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeClients() error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return errors.Join(errs...)
}
