package persist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// BreakerConfig tunes the circuit breaker around a backend.
type BreakerConfig struct {
	// Name identifies the breaker in logs and metrics.
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	MaxRequests uint32

	// Interval clears failure counts while closed. 0 never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// FailureRatio trips the breaker once MinRequests calls have been seen.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig returns the breaker settings used for state backends.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = gobreaker.ErrOpenState

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "storefront_persist_breaker_state",
		Help: "State of the persistence circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Breaker guards a Backend with a circuit breaker so an unreachable store
// fails fast instead of stalling every mutation for the full timeout.
// A missing key counts as a success.
type Breaker struct {
	next    Backend
	breaker *gobreaker.CircuitBreaker[[]byte]
}

var _ Backend = (*Breaker)(nil)

// NewBreaker wraps next.
func NewBreaker(next Backend, cfg BreakerConfig, logger *slog.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrNotFound)
		},
	}

	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &Breaker{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// Load reads through the breaker.
func (b *Breaker) Load(ctx context.Context, key string) ([]byte, error) {
	return b.breaker.Execute(func() ([]byte, error) {
		return b.next.Load(ctx, key)
	})
}

// Save writes through the breaker.
func (b *Breaker) Save(ctx context.Context, key string, data []byte) error {
	_, err := b.breaker.Execute(func() ([]byte, error) {
		return nil, b.next.Save(ctx, key, data)
	})
	return err
}

// Delete deletes through the breaker.
func (b *Breaker) Delete(ctx context.Context, key string) error {
	_, err := b.breaker.Execute(func() ([]byte, error) {
		return nil, b.next.Delete(ctx, key)
	})
	return err
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.breaker.State()
}
