// Package session owns the per-visitor bundle of stores and keeps it attached
// to the persistence adapter for as long as the visitor is active.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/listing"
	"github.com/utafrali/storefront/internal/persist"
	"github.com/utafrali/storefront/internal/store"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// MaxIDLength bounds session identifiers.
const MaxIDLength = 128

// Storefront is everything one visitor sees: their stores, the derived
// product list and the search debouncer.
type Storefront struct {
	ID string

	Cart       *store.Cart
	Favorites  *store.Favorites
	Comparison *store.Comparison
	Reviews    *store.Reviews
	Orders     *store.Orders
	Filters    *store.Filters
	Auth       *store.Auth

	View   *listing.View
	Search *listing.Suggester

	mu       sync.Mutex
	lastSeen time.Time
	detach   []func()
	closed   bool
}

// persistables lists the stores saved by the adapter.
func (s *Storefront) persistables() []persist.Persistable {
	return []persist.Persistable{
		s.Cart, s.Favorites, s.Comparison, s.Reviews, s.Orders, s.Filters, s.Auth,
	}
}

// StoreNames lists the persistence names of every store in a Storefront.
func StoreNames() []string {
	return []string{
		store.NameCart, store.NameFavorites, store.NameComparison, store.NameReviews,
		store.NameOrders, store.NameFilters, store.NameAuth,
	}
}

func (s *Storefront) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Storefront) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// Close detaches persistence and stops the highlight timer, the debouncer
// and the filter subscription. It is idempotent.
func (s *Storefront) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	detach := s.detach
	s.detach = nil
	s.mu.Unlock()

	for _, fn := range detach {
		fn()
	}
	s.Search.Close()
	s.View.Close()
	s.Cart.Close()
}

// Options tunes newly created storefronts.
type Options struct {
	HighlightDuration time.Duration
	SearchDebounce    time.Duration
	PageSize          int
}

// Manager creates storefronts on first use and keeps them until closed.
type Manager struct {
	catalog *catalog.Catalog
	adapter *persist.Adapter
	logger  *slog.Logger
	opts    Options
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	once sync.Once
	sf   atomic.Pointer[Storefront]
}

// wait blocks until any in-flight build finishes and returns its result.
func (e *entry) wait() *Storefront {
	e.once.Do(func() {})
	return e.sf.Load()
}

// NewManager creates a session manager. A nil adapter keeps state in memory
// only.
func NewManager(cat *catalog.Catalog, adapter *persist.Adapter, l *slog.Logger, opts Options) *Manager {
	if l == nil {
		l = logger.Discard()
	}
	return &Manager{
		catalog:  cat,
		adapter:  adapter,
		logger:   l,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// ValidateID reports whether id can name a session.
func ValidateID(id string) error {
	if id == "" {
		return apperrors.InvalidInput("session id is required")
	}
	if len(id) > MaxIDLength {
		return apperrors.InvalidInput(fmt.Sprintf("session id must be at most %d characters", MaxIDLength))
	}
	return nil
}

// Get returns the storefront of session id, building and restoring it on
// first use. Concurrent first calls share one build.
func (m *Manager) Get(ctx context.Context, id string) (*Storefront, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		e = &entry{}
		m.sessions[id] = e
	}
	m.mu.Unlock()

	e.once.Do(func() { e.sf.Store(m.build(ctx, id)) })
	sf := e.sf.Load()
	sf.touch(m.now())
	return sf, nil
}

func (m *Manager) build(ctx context.Context, id string) *Storefront {
	l := m.logger.With(slog.String("session_id", id))
	products := m.catalog.All()

	sf := &Storefront{
		ID:         id,
		Cart:       store.NewCart(l, store.WithHighlightDuration(m.opts.HighlightDuration)),
		Favorites:  store.NewFavorites(l),
		Comparison: store.NewComparison(l),
		Reviews:    store.NewReviews(l),
		Orders:     store.NewOrders(l),
		Filters:    store.NewFilters(l),
		Auth:       store.NewAuth(l),
	}
	sf.View = listing.NewView(products, sf.Filters, m.opts.PageSize)
	sf.Search = listing.NewSuggester(products, sf.View, m.opts.SearchDebounce)

	if m.adapter != nil {
		for _, s := range sf.persistables() {
			sf.detach = append(sf.detach, m.adapter.Attach(ctx, id, s))
		}
	}

	logger.WithContext(ctx, l).InfoContext(ctx, "session started")
	return sf
}

// Close tears down session id. It reports whether the session existed.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	if sf := e.wait(); sf != nil {
		sf.Close()
	}
	return true
}

// Purge tears down session id and deletes its saved state. Backend failures
// are reported as unavailable so callers may retry.
func (m *Manager) Purge(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	m.Close(id)
	if m.adapter == nil {
		return nil
	}
	if err := m.adapter.Purge(ctx, id, StoreNames()...); err != nil {
		return apperrors.Unavailable(fmt.Sprintf("saved state of session %s could not be deleted", id), err)
	}
	return nil
}

// EvictIdle closes sessions not used for maxIdle. Their saved state stays in
// the backend and is restored on the next visit. It returns the number of
// sessions closed.
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	var idle []*Storefront
	for id, e := range m.sessions {
		sf := e.sf.Load()
		if sf == nil || !sf.idleSince(cutoff) {
			continue
		}
		idle = append(idle, sf)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, sf := range idle {
		sf.Close()
	}
	if len(idle) > 0 {
		m.logger.Info("evicted idle sessions", slog.Int("count", len(idle)))
	}
	return len(idle)
}

// CloseAll tears down every session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range sessions {
		if sf := e.wait(); sf != nil {
			sf.Close()
		}
	}
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
