package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*Backend, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, ttl), mr
}

func TestBackend_Load_Success(t *testing.T) {
	b, mr := setupTestRedis(t, time.Hour)
	require.NoError(t, mr.Set("storefront:s1:cart", `{"items":[]}`))

	got, err := b.Load(context.Background(), "storefront:s1:cart")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))
}

func TestBackend_Load_NotFound(t *testing.T) {
	b, _ := setupTestRedis(t, time.Hour)

	_, err := b.Load(context.Background(), "storefront:missing:cart")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBackend_Load_ConnectionError(t *testing.T) {
	b, mr := setupTestRedis(t, time.Hour)
	mr.Close()

	_, err := b.Load(context.Background(), "storefront:s1:cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	assert.Contains(t, err.Error(), "redis get state")
}

func TestBackend_Save_AppliesTTL(t *testing.T) {
	b, mr := setupTestRedis(t, 2*time.Hour)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, "storefront:s1:favorites", []byte(`["p-1"]`)))

	val, err := mr.Get("storefront:s1:favorites")
	require.NoError(t, err)
	assert.Equal(t, `["p-1"]`, val)
	assert.Equal(t, 2*time.Hour, mr.TTL("storefront:s1:favorites"))

	mr.FastForward(3 * time.Hour)
	_, err = b.Load(ctx, "storefront:s1:favorites")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBackend_Save_NoTTL(t *testing.T) {
	b, mr := setupTestRedis(t, 0)

	require.NoError(t, b.Save(context.Background(), "k", []byte("v")))
	assert.Equal(t, time.Duration(0), mr.TTL("k"))
}

func TestBackend_Delete(t *testing.T) {
	b, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()
	require.NoError(t, mr.Set("k", "v"))

	require.NoError(t, b.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
	require.NoError(t, b.Delete(ctx, "k"), "deleting an absent key succeeds")
}

func TestBackend_Ping(t *testing.T) {
	b, mr := setupTestRedis(t, time.Hour)
	require.NoError(t, b.Ping(context.Background()))

	mr.Close()
	assert.Error(t, b.Ping(context.Background()))
}
