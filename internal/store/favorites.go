package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Favorites is the visitor's set of favorite product ids, kept in the order
// they were added.
type Favorites struct {
	base

	mu  sync.RWMutex
	ids []string
	set map[string]struct{}
}

// NewFavorites creates an empty favorites set.
func NewFavorites(l *slog.Logger) *Favorites {
	return &Favorites{
		base: newBase(NameFavorites, l),
		ids:  []string{},
		set:  map[string]struct{}{},
	}
}

func blankIDError() error {
	return apperrors.InvalidFields("product id is required", map[string]string{"product_id": "is required"})
}

// ToggleFavorite flips membership of id and reports whether it is now a favorite.
func (f *Favorites) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, f.reject(ctx, "toggle", blankIDError())
	}

	f.mu.Lock()
	_, had := f.set[id]
	if had {
		f.removeLocked(id)
	} else {
		f.addLocked(id)
	}
	f.mu.Unlock()

	f.log(ctx).DebugContext(ctx, "favorite toggled", slog.String("product_id", id), slog.Bool("favorite", !had))
	f.applied("toggle")
	return !had, nil
}

// AddFavorite adds id. Adding an existing favorite is a no-op.
func (f *Favorites) AddFavorite(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return f.reject(ctx, "add", blankIDError())
	}

	f.mu.Lock()
	added := f.addLocked(id)
	f.mu.Unlock()

	if added {
		f.applied("add")
	}
	return nil
}

// RemoveFavorite removes id. Removing an absent id is a no-op.
func (f *Favorites) RemoveFavorite(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return f.reject(ctx, "remove", blankIDError())
	}

	f.mu.Lock()
	removed := f.removeLocked(id)
	f.mu.Unlock()

	if removed {
		f.applied("remove")
	}
	return nil
}

// IsFavorite reports whether id is a favorite.
func (f *Favorites) IsFavorite(id string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.set[id]
	return ok
}

// IDs returns the favorite ids in insertion order.
func (f *Favorites) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.ids)
}

// Len returns the number of favorites.
func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}

func (f *Favorites) addLocked(id string) bool {
	if _, ok := f.set[id]; ok {
		return false
	}
	f.set[id] = struct{}{}
	f.ids = append(f.ids, id)
	return true
}

func (f *Favorites) removeLocked(id string) bool {
	if _, ok := f.set[id]; !ok {
		return false
	}
	delete(f.set, id)
	f.ids = slices.DeleteFunc(f.ids, func(v string) bool { return v == id })
	return true
}

type favoritesSnapshot struct {
	IDs []string `json:"ids"`
}

// Serialize encodes the favorite ids.
func (f *Favorites) Serialize() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return json.Marshal(favoritesSnapshot{IDs: f.ids})
}

// Hydrate replaces the set with a serialized snapshot. Duplicate ids in the
// blob collapse to one.
func (f *Favorites) Hydrate(data []byte) error {
	var snap favoritesSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("hydrate favorites: %w", err)
	}

	f.mu.Lock()
	f.ids = []string{}
	f.set = make(map[string]struct{}, len(snap.IDs))
	for _, id := range snap.IDs {
		f.addLocked(id)
	}
	f.mu.Unlock()

	f.notify()
	return nil
}
