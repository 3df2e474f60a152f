package database

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/utafrali/storefront/pkg/tracing"
)

const tracerName = "github.com/utafrali/storefront/pkg/database"

// QueryTracer wraps database calls in client spans and reports slow queries.
// The zero value traces without slow query logging.
type QueryTracer struct {
	// System is recorded as db.system; defaults to "postgresql".
	System string
	// SlowThreshold enables slow query warnings when positive and Logger is set.
	SlowThreshold time.Duration
	Logger        *slog.Logger
}

// Trace starts a span for one database operation. Call the returned function
// with the operation's error once it completes:
//
//	ctx, end := t.Trace(ctx, "LoadState", query)
//	defer func() { end(err) }()
func (t QueryTracer) Trace(ctx context.Context, operation, statement string) (context.Context, func(error)) {
	system := t.System
	if system == "" {
		system = "postgresql"
	}

	start := time.Now()
	ctx, span := tracing.Tracer(tracerName).Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", system),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", statement),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if t.SlowThreshold <= 0 || t.Logger == nil {
			return
		}
		elapsed := time.Since(start)
		if elapsed < t.SlowThreshold {
			return
		}
		attrs := []slog.Attr{
			slog.String("operation", operation),
			slog.String("statement", statement),
			slog.Duration("duration", elapsed),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		t.Logger.LogAttrs(ctx, slog.LevelWarn, "slow query detected", attrs...)
	}
}
