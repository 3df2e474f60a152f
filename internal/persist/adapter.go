package persist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/tracing"
)

const tracerName = "github.com/utafrali/storefront/internal/persist"

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 2 * time.Second

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_persist_operations_total",
		Help: "State backend operations by store and result",
	},
	[]string{"store", "operation", "result"},
)

// Results recorded on storefront_persist_operations_total.
const (
	resultOK       = "ok"
	resultMissing  = "not_found"
	resultCorrupt  = "corrupt"
	resultError    = "error"
	operationLoad  = "load"
	operationSave  = "save"
	operationPurge = "delete"
)

// Persistable is a store that can be snapshotted and observed.
type Persistable interface {
	Name() string
	Serialize() ([]byte, error)
	Hydrate(data []byte) error
	Subscribe(fn func()) (unsubscribe func())
}

// Adapter restores stores from a Backend and saves them after every change.
// Backend failures are logged and counted; they never reach the caller that
// mutated the store, and the in-memory state stands.
type Adapter struct {
	backend Backend
	logger  *slog.Logger
	timeout time.Duration
}

// NewAdapter creates an adapter over backend. A non-positive timeout uses
// DefaultTimeout.
func NewAdapter(backend Backend, l *slog.Logger, timeout time.Duration) *Adapter {
	if l == nil {
		l = logger.Discard()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{backend: backend, logger: l, timeout: timeout}
}

// Attach hydrates s from the session's saved snapshot, then saves it on every
// change until the returned detach function is called. A missing snapshot
// leaves the defaults in place, and so does a corrupt one.
func (a *Adapter) Attach(ctx context.Context, sessionID string, s Persistable) (detach func()) {
	key := Key(sessionID, s.Name())
	log := logger.WithContext(ctx, a.logger).With(
		slog.String("store", s.Name()),
		slog.String("key", key),
	)

	a.restore(ctx, log, key, s)

	// Saves outlive the request that opened the session.
	saveCtx := context.WithoutCancel(ctx)
	var mu sync.Mutex
	return s.Subscribe(func() {
		mu.Lock()
		defer mu.Unlock()
		a.save(saveCtx, log, key, s)
	})
}

// Purge deletes the saved snapshots of the named stores.
func (a *Adapter) Purge(ctx context.Context, sessionID string, names ...string) error {
	var errs []error
	for _, name := range names {
		key := Key(sessionID, name)
		cctx, cancel := context.WithTimeout(ctx, a.timeout)
		err := a.backend.Delete(cctx, key)
		cancel()
		if err != nil {
			operationsTotal.WithLabelValues(name, operationPurge, resultError).Inc()
			errs = append(errs, err)
			continue
		}
		operationsTotal.WithLabelValues(name, operationPurge, resultOK).Inc()
	}
	return errors.Join(errs...)
}

// startSpan opens a span for one adapter operation on store. The returned
// function ends it, marking the span failed when err is non-nil.
func startSpan(ctx context.Context, operation, store, key string) (context.Context, func(err error)) {
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "persist."+operation,
		trace.WithAttributes(
			attribute.String("storefront.store", store),
			attribute.String("storefront.state_key", key),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (a *Adapter) restore(ctx context.Context, log *slog.Logger, key string, s Persistable) {
	ctx, end := startSpan(ctx, operationLoad, s.Name(), key)
	var failure error
	defer func() { end(failure) }()

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	data, err := a.backend.Load(cctx, key)
	cancel()

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		operationsTotal.WithLabelValues(s.Name(), operationLoad, resultMissing).Inc()
		log.DebugContext(ctx, "no saved state, using defaults")
		return
	case err != nil:
		failure = err
		operationsTotal.WithLabelValues(s.Name(), operationLoad, resultError).Inc()
		log.ErrorContext(ctx, "failed to load saved state", slog.String("error", err.Error()))
		return
	}

	if err := s.Hydrate(data); err != nil {
		failure = err
		operationsTotal.WithLabelValues(s.Name(), operationLoad, resultCorrupt).Inc()
		log.WarnContext(ctx, "discarding corrupt saved state", slog.String("error", err.Error()))
		return
	}
	operationsTotal.WithLabelValues(s.Name(), operationLoad, resultOK).Inc()
}

func (a *Adapter) save(ctx context.Context, log *slog.Logger, key string, s Persistable) {
	ctx, end := startSpan(ctx, operationSave, s.Name(), key)
	var err error
	defer func() { end(err) }()

	var data []byte
	data, err = s.Serialize()
	if err != nil {
		operationsTotal.WithLabelValues(s.Name(), operationSave, resultError).Inc()
		log.ErrorContext(ctx, "failed to serialize state", slog.String("error", err.Error()))
		return
	}

	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err = a.backend.Save(cctx, key, data); err != nil {
		operationsTotal.WithLabelValues(s.Name(), operationSave, resultError).Inc()
		log.ErrorContext(ctx, "failed to save state", slog.String("error", err.Error()))
		return
	}
	operationsTotal.WithLabelValues(s.Name(), operationSave, resultOK).Inc()
}
