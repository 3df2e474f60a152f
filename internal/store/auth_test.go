package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func TestAuth_LoginLogout(t *testing.T) {
	ctx := context.Background()
	a := NewAuth(nil)

	_, ok := a.CurrentUser()
	assert.False(t, ok)

	u, err := a.Login(ctx, domain.LoginInput{Email: "  Ada@Example.com "})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "ada", u.Name, "name defaults to the email local part")

	cur, ok := a.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.ID, cur.ID)

	again, err := NewAuth(nil).Login(ctx, domain.LoginInput{Email: "ada@example.com", Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, u.ID, again.ID, "user id is derived from the email")

	assert.True(t, a.Logout(ctx))
	assert.False(t, a.Logout(ctx))
	_, ok = a.CurrentUser()
	assert.False(t, ok)
}

func TestAuth_LoginRejectsBadEmail(t *testing.T) {
	a := NewAuth(nil)
	_, err := a.Login(context.Background(), domain.LoginInput{Email: "not-an-email"})
	assert.True(t, apperrors.IsValidation(err))
	_, ok := a.CurrentUser()
	assert.False(t, ok)
}

func TestAuth_SerializeHydrate(t *testing.T) {
	src := NewAuth(nil)
	u, err := src.Login(context.Background(), domain.LoginInput{Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)
	blob, err := src.Serialize()
	require.NoError(t, err)

	dst := NewAuth(nil)
	require.NoError(t, dst.Hydrate(blob))
	got, ok := dst.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, u.ID, got.ID)

	require.NoError(t, dst.Hydrate([]byte(`{"user":null}`)))
	_, ok = dst.CurrentUser()
	assert.False(t, ok)
}

func TestNotifier_OrderAndUnsubscribe(t *testing.T) {
	var n notifier
	var seen []int
	n.Subscribe(func() { seen = append(seen, 1) })
	stop := n.Subscribe(func() { seen = append(seen, 2) })
	n.Subscribe(func() { seen = append(seen, 3) })

	n.notify()
	stop()
	n.notify()
	assert.Equal(t, []int{1, 2, 3, 1, 3}, seen)
}
