// Package memory provides a process-local persistence backend.
package memory

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Backend keeps blobs in a map. It is safe for concurrent use.
type Backend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{blobs: make(map[string][]byte)}
}

// Load returns a copy of the blob stored under key.
func (b *Backend) Load(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.blobs[key]
	if !ok {
		return nil, apperrors.NotFound("state", key)
	}
	return slices.Clone(data), nil
}

// Save stores a copy of data under key.
func (b *Backend) Save(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[key] = slices.Clone(data)
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.blobs, key)
	return nil
}

// Len returns the number of stored keys.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.blobs)
}
