// Package persist saves store snapshots to a key-value backend and restores
// them when a visitor session starts.
package persist

import (
	"context"
	"strings"
)

// Backend stores opaque state blobs by key. Load returns an error wrapping
// apperrors.ErrNotFound when the key is absent.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

const keyPrefix = "storefront"

// Key returns the backend key of one store within a session.
func Key(sessionID, store string) string {
	return strings.Join([]string{keyPrefix, sessionID, store}, ":")
}
