// Package notify is the boundary to the external notification service.
// Events go out over Kafka; delivery (email, push) is someone else's job.
// Publishing is best-effort: a checkout or status update never fails
// because a notification could not be sent.
package notify

import (
	"context"
	"log/slog"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
	"github.com/aymanbest/Local-market-backend-sub000/internal/messaging"
)

const (
	TopicSellerOrders  = "order.created"
	TopicConfirmations = "order.confirmation"
	TopicStatusUpdates = "order.status"
)

type Dispatcher struct {
	sellerOrders  *messaging.Producer
	confirmations *messaging.Producer
	statusUpdates *messaging.Producer
	logger        *slog.Logger
}

// NewDispatcher builds a dispatcher for the given brokers. With no brokers
// configured every publish is a no-op, which keeps local development and
// unit-level wiring free of a Kafka dependency.
func NewDispatcher(brokers []string, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{logger: logger}
	if len(brokers) == 0 {
		return d
	}
	d.sellerOrders = messaging.NewProducer(brokers, TopicSellerOrders)
	d.confirmations = messaging.NewProducer(brokers, TopicConfirmations)
	d.statusUpdates = messaging.NewProducer(brokers, TopicStatusUpdates)
	return d
}

func (d *Dispatcher) SellerOrderCreated(ctx context.Context, event domain.SellerOrderCreatedEvent) {
	d.publish(ctx, d.sellerOrders, event.SellerID, event)
}

func (d *Dispatcher) OrderConfirmation(ctx context.Context, event domain.OrderConfirmationEvent) {
	d.publish(ctx, d.confirmations, event.Email, event)
}

func (d *Dispatcher) OrderStatusChanged(ctx context.Context, event domain.OrderStatusEvent) {
	d.publish(ctx, d.statusUpdates, event.OrderID, event)
}

func (d *Dispatcher) publish(ctx context.Context, producer *messaging.Producer, key string, event any) {
	if producer == nil {
		return
	}
	if err := producer.Publish(ctx, key, event); err != nil {
		d.logger.Error("failed to publish notification", "error", err, "topic", producer.Topic())
	}
}

func (d *Dispatcher) Close() {
	for _, p := range []*messaging.Producer{d.sellerOrders, d.confirmations, d.statusUpdates} {
		if p != nil {
			_ = p.Close()
		}
	}
}
