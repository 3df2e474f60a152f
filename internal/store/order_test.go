package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func orderInput() domain.NewOrderInput {
	return domain.NewOrderInput{
		Items: []domain.OrderItem{{
			ProductID:  "p-1",
			Title:      "Linen Shirt",
			Quantity:   2,
			Price:      decimal.NewFromInt(100),
			VariantKey: "white-M",
		}},
		Total:           decimal.NewFromInt(200),
		ShippingAddress: "1 Main St, Springfield",
		PaymentMethod:   "card",
	}
}

func TestOrders_AddOrderEchoesFields(t *testing.T) {
	o := NewOrders(nil)
	in := orderInput()
	in.Total = decimal.NewFromInt(150)

	order, err := o.AddOrder(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(decimal.NewFromInt(150)), "total is stored as supplied")
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, "1 Main St, Springfield", order.ShippingAddress)
	assert.Equal(t, "card", order.PaymentMethod)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, time.UTC, order.Date.Location())

	id, err := uuid.Parse(order.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	got, ok := o.GetOrder(order.ID)
	require.True(t, ok)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrders_MostRecentFirst(t *testing.T) {
	ctx := context.Background()
	o := NewOrders(nil)
	first, err := o.AddOrder(ctx, orderInput())
	require.NoError(t, err)
	second, err := o.AddOrder(ctx, orderInput())
	require.NoError(t, err)

	orders := o.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
	assert.Less(t, first.ID, second.ID, "ids are time-ordered")
}

func TestOrders_AddOrder_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.NewOrderInput)
	}{
		{"no items", func(in *domain.NewOrderInput) { in.Items = nil }},
		{"empty items", func(in *domain.NewOrderInput) { in.Items = []domain.OrderItem{} }},
		{"zero total", func(in *domain.NewOrderInput) { in.Total = decimal.Zero }},
		{"blank address", func(in *domain.NewOrderInput) { in.ShippingAddress = "  " }},
		{"no payment", func(in *domain.NewOrderInput) { in.PaymentMethod = "" }},
		{"item without product", func(in *domain.NewOrderInput) { in.Items[0].ProductID = "" }},
		{"item without title", func(in *domain.NewOrderInput) { in.Items[0].Title = "" }},
		{"item zero quantity", func(in *domain.NewOrderInput) { in.Items[0].Quantity = 0 }},
		{"item negative price", func(in *domain.NewOrderInput) { in.Items[0].Price = decimal.NewFromInt(-1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewOrders(nil)
			in := orderInput()
			tc.mutate(&in)
			_, err := o.AddOrder(context.Background(), in)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Empty(t, o.Orders())
		})
	}
}

func TestOrders_FreeItemAllowed(t *testing.T) {
	o := NewOrders(nil)
	in := orderInput()
	in.Items = append(in.Items, domain.OrderItem{ProductID: "gift", Title: "Gift wrap", Quantity: 1, Price: decimal.Zero})
	_, err := o.AddOrder(context.Background(), in)
	assert.NoError(t, err)
}

func TestOrders_AddOrderLeavesInputUntouched(t *testing.T) {
	in := orderInput()
	in.Items[0].ProductID = "  p-1 "
	in.Items[0].Title = " Linen Shirt "

	order, err := NewOrders(nil).AddOrder(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "p-1", order.Items[0].ProductID)
	assert.Equal(t, "Linen Shirt", order.Items[0].Title)
	assert.Equal(t, "  p-1 ", in.Items[0].ProductID)
	assert.Equal(t, " Linen Shirt ", in.Items[0].Title)
}

func TestOrders_GetMissing(t *testing.T) {
	_, ok := NewOrders(nil).GetOrder("nope")
	assert.False(t, ok)
}

func TestOrders_SerializeHydrate(t *testing.T) {
	src := NewOrders(nil)
	order, err := src.AddOrder(context.Background(), orderInput())
	require.NoError(t, err)
	blob, err := src.Serialize()
	require.NoError(t, err)

	dst := NewOrders(nil)
	require.NoError(t, dst.Hydrate(blob))
	got, ok := dst.GetOrder(order.ID)
	require.True(t, ok)
	assert.True(t, got.Total.Equal(order.Total))
	assert.True(t, got.Date.Equal(order.Date))
}
