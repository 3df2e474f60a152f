package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishOrderPlaced(ctx context.Context, sessionID string, order domain.Order) error {
	return m.Called(ctx, sessionID, order).Error(0)
}

// --- Test Helpers ---

func newTestStorefront(t *testing.T) (*catalog.Catalog, *session.Storefront) {
	t.Helper()
	cat, err := catalog.LoadFile("../../data/catalog.json")
	require.NoError(t, err)
	m := session.NewManager(cat, nil, nil, session.Options{HighlightDuration: time.Millisecond})
	t.Cleanup(m.CloseAll)
	sf, err := m.Get(context.Background(), "s1")
	require.NoError(t, err)
	return cat, sf
}

func validInput() CheckoutInput {
	return CheckoutInput{ShippingAddress: "1 Main St, Springfield", PaymentMethod: "card"}
}

func rejections(t *testing.T, reason string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, rejectionsTotal.WithLabelValues(reason).(prometheus.Metric).Write(&m))
	return m.GetCounter().GetValue()
}

// --- Tests ---

func TestCheckout_Success(t *testing.T) {
	cat, sf := newTestStorefront(t)
	pub := new(mockPublisher)
	svc := NewCheckoutService(cat, pub, logger.Discard())
	ctx := context.Background()

	shirt, ok := cat.ByID("p-001")
	require.True(t, ok)
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-001", Title: "stale title", Price: decimal.NewFromInt(1)}, 2))
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-004", Size: "42"}, 1))
	require.NoError(t, sf.Cart.UpdateQuantity(ctx, "p-004", domain.VariantKey("", "42"), 0))

	pub.On("PublishOrderPlaced", mock.Anything, "s1", mock.AnythingOfType("domain.Order")).Return(nil)

	order, err := svc.Checkout(ctx, sf, validInput())
	require.NoError(t, err)
	pub.AssertExpectations(t)

	require.Len(t, order.Items, 1, "zero quantity lines are skipped")
	assert.Equal(t, shirt.Title, order.Items[0].Title)
	assert.True(t, order.Items[0].Price.Equal(shirt.Price))
	assert.True(t, order.Total.Equal(shirt.Price.Mul(decimal.NewFromInt(2))))
	assert.Equal(t, domain.OrderStatusPending, order.Status)

	assert.Empty(t, sf.Cart.Items(), "cart is cleared")
	got, ok := sf.Orders.GetOrder(order.ID)
	require.True(t, ok)
	assert.Equal(t, order.ID, got.ID)
}

func TestCheckout_EmptyCart(t *testing.T) {
	cat, sf := newTestStorefront(t)
	pub := new(mockPublisher)
	svc := NewCheckoutService(cat, pub, logger.Discard())

	_, err := svc.Checkout(context.Background(), sf, validInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	pub.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, sf.Orders.Orders())
}

func TestCheckout_InvalidInput(t *testing.T) {
	cat, sf := newTestStorefront(t)
	svc := NewCheckoutService(cat, new(mockPublisher), logger.Discard())
	ctx := context.Background()
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-001"}, 1))

	_, err := svc.Checkout(ctx, sf, CheckoutInput{ShippingAddress: "", PaymentMethod: "barter"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "shipping_address")
	assert.Contains(t, appErr.Fields, "payment_method")
	assert.Len(t, sf.Cart.Items(), 1, "cart untouched")
}

func TestCheckout_PublishFailureDoesNotFailCheckout(t *testing.T) {
	cat, sf := newTestStorefront(t)
	pub := new(mockPublisher)
	svc := NewCheckoutService(cat, pub, logger.Discard())
	ctx := context.Background()
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-002"}, 1))

	pub.On("PublishOrderPlaced", mock.Anything, "s1", mock.Anything).Return(errors.New("broker down"))

	order, err := svc.Checkout(ctx, sf, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Empty(t, sf.Cart.Items())
}

func TestCheckout_UserIDReachesPublisher(t *testing.T) {
	cat, sf := newTestStorefront(t)
	pub := new(mockPublisher)
	svc := NewCheckoutService(cat, pub, logger.Discard())
	ctx := context.Background()

	user, err := sf.Auth.Login(ctx, domain.LoginInput{Email: "ada@example.com"})
	require.NoError(t, err)
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-003"}, 1))

	pub.On("PublishOrderPlaced", mock.MatchedBy(func(ctx context.Context) bool {
		return logger.UserIDFromContext(ctx) == user.ID
	}), "s1", mock.Anything).Return(nil)

	_, err = svc.Checkout(ctx, sf, validInput())
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestCheckout_LinesAddedDuringCommitStayInCart(t *testing.T) {
	cat, sf := newTestStorefront(t)
	pub := new(mockPublisher)
	svc := NewCheckoutService(cat, pub, logger.Discard())
	ctx := context.Background()
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-001"}, 1))

	added := false
	unsubscribe := sf.Orders.Subscribe(func() {
		if added {
			return
		}
		added = true
		require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-002"}, 1))
	})
	defer unsubscribe()
	pub.On("PublishOrderPlaced", mock.Anything, "s1", mock.Anything).Return(nil)

	order, err := svc.Checkout(ctx, sf, validInput())
	require.NoError(t, err)
	require.True(t, added)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "p-001", order.Items[0].ProductID)

	lines := sf.Cart.Items()
	require.Len(t, lines, 1)
	assert.Equal(t, "p-002", lines[0].ProductID)
}

func TestCheckout_SecondCheckoutFindsEmptyCart(t *testing.T) {
	cat, sf := newTestStorefront(t)
	pub := new(mockPublisher)
	svc := NewCheckoutService(cat, pub, logger.Discard())
	ctx := context.Background()
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-001"}, 3))
	pub.On("PublishOrderPlaced", mock.Anything, "s1", mock.Anything).Return(nil)

	_, err := svc.Checkout(ctx, sf, validInput())
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, sf, validInput())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Len(t, sf.Orders.Orders(), 1)
}

func TestCheckout_ZeroQuantityLinesAreKeptOnEmptyCart(t *testing.T) {
	cat, sf := newTestStorefront(t)
	svc := NewCheckoutService(cat, new(mockPublisher), logger.Discard())
	ctx := context.Background()
	require.NoError(t, sf.Cart.AddItem(ctx, domain.CartItem{ProductID: "p-001", Size: "M"}, 1))
	require.NoError(t, sf.Cart.UpdateQuantity(ctx, "p-001", domain.VariantKey("", "M"), 0))
	before := rejections(t, reasonEmptyCart)

	_, err := svc.Checkout(ctx, sf, validInput())
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	lines := sf.Cart.Items()
	require.Len(t, lines, 1, "taken lines are restored")
	assert.Zero(t, lines[0].Quantity)
	assert.Equal(t, before+1, rejections(t, reasonEmptyCart))
}

func TestCheckout_InvalidInputIsCounted(t *testing.T) {
	cat, sf := newTestStorefront(t)
	svc := NewCheckoutService(cat, new(mockPublisher), logger.Discard())
	before := rejections(t, reasonInvalidInput)

	_, err := svc.Checkout(context.Background(), sf, CheckoutInput{PaymentMethod: "card"})
	require.Error(t, err)
	assert.Equal(t, before+1, rejections(t, reasonInvalidInput))
}
