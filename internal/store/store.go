// Package store implements the observable per-visitor state containers:
// cart, favorites, comparison, reviews, orders, filters and the mock account.
//
// Every store guards its state with its own lock, notifies subscribers after
// the lock is released, and round-trips its state through Serialize and
// Hydrate so a persistence adapter can save it on every change.
package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/pkg/logger"
)

// Names under which each store is persisted.
const (
	NameCart       = "cart"
	NameFavorites  = "favorites"
	NameComparison = "comparison"
	NameReviews    = "reviews"
	NameOrders     = "orders"
	NameFilters    = "filters"
	NameAuth       = "auth"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_mutations_total",
			Help: "Applied store mutations",
		},
		[]string{"store", "operation"},
	)

	rejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_store_rejections_total",
			Help: "Store mutations rejected by validation",
		},
		[]string{"store", "operation"},
	)
)

// notifier fans change notifications out to subscribers. Callbacks run
// synchronously on the mutating goroutine, in subscription order, and must
// not call back into a mutator of the same store.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// Subscribe registers fn to run after every state change and returns a
// function that removes it.
func (n *notifier) Subscribe(fn func()) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	id := n.next
	n.next++
	n.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	ids := make([]int, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, n.subs[id])
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// base carries what every store shares: its name, logger and subscribers.
type base struct {
	notifier
	name   string
	logger *slog.Logger
}

func newBase(name string, l *slog.Logger) base {
	if l == nil {
		l = logger.Discard()
	}
	return base{name: name, logger: l.With(slog.String("store", name))}
}

// Name returns the persistence name of the store.
func (b *base) Name() string {
	return b.name
}

func (b *base) log(ctx context.Context) *slog.Logger {
	return logger.WithContext(ctx, b.logger)
}

// applied records a successful mutation and notifies subscribers.
func (b *base) applied(operation string) {
	mutationsTotal.WithLabelValues(b.name, operation).Inc()
	b.notify()
}

// reject logs and counts a validation failure and returns err unchanged.
func (b *base) reject(ctx context.Context, operation string, err error) error {
	rejectionsTotal.WithLabelValues(b.name, operation).Inc()
	b.log(ctx).WarnContext(ctx, "store mutation rejected",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	return err
}
