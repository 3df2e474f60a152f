// Package redis stores state blobs in Redis with a sliding TTL.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Backend implements persist.Backend using Redis.
type Backend struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Redis-backed state backend. Keys expire ttl after their last
// save; a non-positive ttl keeps them forever.
func New(client *redis.Client, ttl time.Duration) *Backend {
	if ttl < 0 {
		ttl = 0
	}
	return &Backend{client: client, ttl: ttl}
}

// Load retrieves the blob stored under key.
func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("state", key)
		}
		return nil, fmt.Errorf("redis get state: %w", err)
	}
	return data, nil
}

// Save stores data under key with the configured TTL.
func (b *Backend) Save(ctx context.Context, key string, data []byte) error {
	if err := b.client.Set(ctx, key, data, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

// Delete removes key.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del state: %w", err)
	}
	return nil
}

// Ping checks connectivity for readiness probes.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
