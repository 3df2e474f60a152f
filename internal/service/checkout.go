// Package service holds the operations that span several stores of one
// storefront.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/session"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/validator"
)

const (
	reasonInvalidInput  = "invalid_input"
	reasonEmptyCart     = "empty_cart"
	reasonOrderRejected = "order_rejected"
)

var rejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_checkout_rejections_total",
		Help: "Checkouts that did not produce an order",
	},
	[]string{"reason"},
)

// OrderPublisher announces committed orders.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, sessionID string, order domain.Order) error
}

// CheckoutInput is the shopper-supplied part of an order.
type CheckoutInput struct {
	ShippingAddress string `json:"shipping_address" validate:"required,max=500"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=card paypal cash_on_delivery"`
}

// CheckoutService turns a cart into an order.
type CheckoutService struct {
	catalog   *catalog.Catalog
	publisher OrderPublisher
	logger    *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(cat *catalog.Catalog, publisher OrderPublisher, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		catalog:   cat,
		publisher: publisher,
		logger:    logger,
	}
}

// Checkout takes the cart lines in one step, turns those with a positive
// quantity into an order and commits it. Lines added while the order is
// being placed stay in the cart for the next checkout. If the order cannot
// be committed the taken lines are put back. The order total is the total
// of the taken lines at current catalog prices. An empty cart is a
// validation error.
func (s *CheckoutService) Checkout(ctx context.Context, sf *session.Storefront, input CheckoutInput) (domain.Order, error) {
	if user, ok := sf.Auth.CurrentUser(); ok {
		ctx = logger.WithUserID(ctx, user.ID)
	}
	if err := validator.Check(input); err != nil {
		return domain.Order{}, s.reject(ctx, reasonInvalidInput, err)
	}

	lines := sf.Cart.TakeItems(ctx)
	items := s.orderItems(lines)
	if len(items) == 0 {
		sf.Cart.Restore(ctx, lines)
		return domain.Order{}, s.reject(ctx, reasonEmptyCart, apperrors.InvalidInput("cart is empty"))
	}

	order, err := sf.Orders.AddOrder(ctx, domain.NewOrderInput{
		Items:           items,
		Total:           domain.LinesTotal(lines, s.catalog.Price),
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
	})
	if err != nil {
		sf.Cart.Restore(ctx, lines)
		return domain.Order{}, fmt.Errorf("checkout: %w", s.reject(ctx, reasonOrderRejected, err))
	}

	if err := s.publisher.PublishOrderPlaced(ctx, sf.ID, order); err != nil {
		logger.WithContext(ctx, s.logger).ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
	return order, nil
}

// orderItems snapshots lines with a positive quantity, preferring current
// catalog title and price over the stored display snapshot.
func (s *CheckoutService) orderItems(lines []domain.CartItem) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		item := domain.OrderItem{
			ProductID:  line.ProductID,
			Title:      line.Title,
			Quantity:   line.Quantity,
			Price:      line.Price,
			Image:      line.Image,
			VariantKey: line.VariantKey,
		}
		if p, ok := s.catalog.ByID(line.ProductID); ok {
			item.Title = p.Title
			item.Price = p.Price
			if item.Image == "" && len(p.Images) > 0 {
				item.Image = p.Images[0]
			}
		}
		items = append(items, item)
	}
	return items
}

// reject logs and counts a checkout that did not produce an order.
func (s *CheckoutService) reject(ctx context.Context, reason string, err error) error {
	rejectionsTotal.WithLabelValues(reason).Inc()
	logger.WithContext(ctx, s.logger).WarnContext(ctx, "checkout rejected",
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
	return err
}
