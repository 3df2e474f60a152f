// Package event publishes storefront domain events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/logger"
)

// TopicOrderPlaced receives one event per committed checkout.
const TopicOrderPlaced = "storefront.order.placed"

// EventOrderPlaced is the event type of a committed checkout.
const EventOrderPlaced = "order.placed"

// SourceStorefront identifies events emitted by this service.
const SourceStorefront = "storefront-service"

// OrderPlacedData is the payload of an order.placed event.
type OrderPlacedData struct {
	OrderID         string             `json:"order_id"`
	SessionID       string             `json:"session_id"`
	UserID          string             `json:"user_id,omitempty"`
	Status          domain.OrderStatus `json:"status"`
	Items           []domain.OrderItem `json:"items"`
	Total           decimal.Decimal    `json:"total"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

// Publisher sends an event to a topic. *pkgkafka.Producer implements it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes storefront events.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order.placed event with the full order snapshot.
func (p *Producer) PublishOrderPlaced(ctx context.Context, sessionID string, order domain.Order) error {
	data := OrderPlacedData{
		OrderID:         order.ID,
		SessionID:       sessionID,
		UserID:          logger.UserIDFromContext(ctx),
		Status:          order.Status,
		Items:           order.Items,
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
	}

	event, err := pkgkafka.NewEvent(EventOrderPlaced, order.ID, SourceStorefront, data,
		pkgkafka.WithSession(sessionID),
		pkgkafka.WithCorrelation(logger.CorrelationIDFromContext(ctx)),
	)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", order.ID),
		slog.String("session_id", sessionID),
	)
	return nil
}

// Nop discards events. It is used when Kafka is disabled.
type Nop struct{}

// PublishOrderPlaced does nothing.
func (Nop) PublishOrderPlaced(context.Context, string, domain.Order) error {
	return nil
}
