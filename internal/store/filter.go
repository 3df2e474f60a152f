package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
)

// Filters holds the listing criteria. Values are trusted; see
// domain.FilterState.Set.
type Filters struct {
	base

	mu      sync.RWMutex
	state   domain.FilterState
	version uint64
}

// NewFilters creates a filter store holding the default criteria.
func NewFilters(l *slog.Logger) *Filters {
	return &Filters{
		base:  newBase(NameFilters, l),
		state: domain.DefaultFilterState(),
	}
}

// UpdateFilter sets one criterion. A value of the wrong type panics.
func (f *Filters) UpdateFilter(ctx context.Context, key domain.FilterKey, value any) {
	f.UpdateFilters(ctx, map[domain.FilterKey]any{key: value})
}

// UpdateFilters sets several criteria with a single notification. Either
// every value applies or, on a panic, none does.
func (f *Filters) UpdateFilters(ctx context.Context, values map[domain.FilterKey]any) {
	if len(values) == 0 {
		return
	}

	func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		next := f.state.Clone()
		for key, v := range values {
			next.Set(key, v)
		}
		f.state = next
		f.version++
	}()

	f.log(ctx).DebugContext(ctx, "filters updated", slog.Int("keys", len(values)))
	f.applied("update")
}

// ClearFilters restores the default criteria.
func (f *Filters) ClearFilters(ctx context.Context) {
	f.mu.Lock()
	f.state = domain.DefaultFilterState()
	f.version++
	f.mu.Unlock()

	f.applied("clear")
}

// State returns a copy of the current criteria.
func (f *Filters) State() domain.FilterState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Clone()
}

// Snapshot returns the criteria together with the version they belong to.
func (f *Filters) Snapshot() (domain.FilterState, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state.Clone(), f.version
}

// Version increases on every change.
func (f *Filters) Version() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.version
}

// Serialize encodes the criteria.
func (f *Filters) Serialize() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return json.Marshal(f.state)
}

// Hydrate replaces the criteria with a serialized snapshot. Fields missing
// from the blob keep their defaults.
func (f *Filters) Hydrate(data []byte) error {
	state := domain.DefaultFilterState()
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("hydrate filters: %w", err)
	}

	f.mu.Lock()
	f.state = state
	f.version++
	f.mu.Unlock()

	f.notify()
	return nil
}
