package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/validator"
)

// Orders is the visitor's order history, most recent first. Orders are
// append-only.
type Orders struct {
	base

	mu     sync.RWMutex
	orders []domain.Order
	now    func() time.Time
}

// NewOrders creates an empty order history.
func NewOrders(l *slog.Logger) *Orders {
	return &Orders{
		base:   newBase(NameOrders, l),
		orders: []domain.Order{},
		now:    time.Now,
	}
}

// AddOrder validates in and records a pending order. The total is stored
// exactly as supplied; it is not recomputed from the items.
func (o *Orders) AddOrder(ctx context.Context, in domain.NewOrderInput) (domain.Order, error) {
	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.Items = slices.Clone(in.Items)
	for i := range in.Items {
		in.Items[i].ProductID = strings.TrimSpace(in.Items[i].ProductID)
		in.Items[i].Title = strings.TrimSpace(in.Items[i].Title)
	}
	if err := validator.Check(in); err != nil {
		return domain.Order{}, o.reject(ctx, "add", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return domain.Order{}, fmt.Errorf("generate order id: %w", err)
	}

	order := domain.Order{
		ID:              id.String(),
		Date:            o.now().UTC(),
		Items:           in.Items,
		Total:           in.Total,
		Status:          domain.OrderStatusPending,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
	}

	o.mu.Lock()
	o.orders = slices.Insert(o.orders, 0, order)
	o.mu.Unlock()

	o.log(ctx).InfoContext(ctx, "order recorded",
		slog.String("order_id", order.ID),
		slog.Int("items", len(order.Items)),
		slog.String("total", order.Total.String()),
	)
	o.applied("add")
	return order, nil
}

// GetOrder looks up an order by id.
func (o *Orders) GetOrder(id string) (domain.Order, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, ord := range o.orders {
		if ord.ID == id {
			return ord, true
		}
	}
	return domain.Order{}, false
}

// Orders returns the history, most recent first.
func (o *Orders) Orders() []domain.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.orders)
}

type ordersSnapshot struct {
	Orders []domain.Order `json:"orders"`
}

// Serialize encodes the order history.
func (o *Orders) Serialize() ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return json.Marshal(ordersSnapshot{Orders: o.orders})
}

// Hydrate replaces the history with a serialized snapshot, trusted as-is.
func (o *Orders) Hydrate(data []byte) error {
	var snap ordersSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("hydrate orders: %w", err)
	}
	if snap.Orders == nil {
		snap.Orders = []domain.Order{}
	}

	o.mu.Lock()
	o.orders = snap.Orders
	o.mu.Unlock()

	o.notify()
	return nil
}
