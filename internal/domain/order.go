package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is an order line snapshot.
type OrderItem struct {
	ProductID  string          `json:"product_id" validate:"required"`
	Title      string          `json:"title" validate:"required"`
	Quantity   int             `json:"quantity" validate:"gt=0"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
	Image      string          `json:"image,omitempty"`
	VariantKey string          `json:"variant_key,omitempty"`
}

// LineTotal returns price × quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a placed order. Orders are immutable once created.
type Order struct {
	ID              string          `json:"id"`
	Date            time.Time       `json:"date"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
}

// NewOrderInput is the payload for committing an order. Total is stored as
// given and is not recomputed from the items.
type NewOrderInput struct {
	Items           []OrderItem     `json:"items" validate:"required,min=1,dive"`
	Total           decimal.Decimal `json:"total" validate:"gt=0"`
	ShippingAddress string          `json:"shipping_address" validate:"required"`
	PaymentMethod   string          `json:"payment_method" validate:"required"`
}
