package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type StatusStore interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	SellerOwns(ctx context.Context, orderID, sellerID string) (bool, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type Notifier interface {
	OrderStatusChanged(ctx context.Context, event domain.OrderStatusEvent)
}

// StatusService applies fulfillment transitions on behalf of sellers.
type StatusService struct {
	store    StatusStore
	notifier Notifier
	logger   *slog.Logger
}

func NewStatusService(store StatusStore, notifier Notifier, logger *slog.Logger) *StatusService {
	return &StatusService{store: store, notifier: notifier, logger: logger}
}

// UpdateOrderStatus validates seller ownership and the transition table
// before writing. Payment statuses are reserved for settlement and can
// never be set through this path.
func (s *StatusService) UpdateOrderStatus(ctx context.Context, orderID string, next domain.OrderStatus, actingSellerID string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(next) {
		return nil, domain.E(domain.KindValidationFailed, "unknown order status %q", next)
	}

	order, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, domain.E(domain.KindOrderNotFound, "order %s not found", orderID)
	}

	owns, err := s.store.SellerOwns(ctx, orderID, actingSellerID)
	if err != nil {
		return nil, fmt.Errorf("check order ownership: %w", err)
	}
	if !owns {
		return nil, domain.E(domain.KindAccessDenied, "seller does not own any item of order %s", orderID)
	}

	if domain.IsPaymentStatus(next) {
		return nil, domain.E(domain.KindAccessDenied, "payment statuses are set by settlement, not by sellers")
	}

	if !domain.CanTransition(order.Status, next) {
		return nil, domain.E(domain.KindInvalidStatusTransition, "cannot transition order from %s to %s", order.Status, next)
	}

	updated, err := s.store.UpdateStatus(ctx, orderID, next)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if updated == nil {
		return nil, domain.E(domain.KindOrderNotFound, "order %s not found", orderID)
	}

	s.notifier.OrderStatusChanged(ctx, domain.OrderStatusEvent{
		OrderID:   updated.ID,
		Email:     updated.Email,
		Status:    updated.Status,
		Message:   statusMessage(updated),
		Timestamp: time.Now().UTC(),
	})

	s.logger.Info("order status updated", "order_id", updated.ID, "status", updated.Status, "seller_id", actingSellerID)
	return updated, nil
}

// statusMessage picks the customer-facing wording. Shipped and delivered
// get their own messages; everything else is generic.
func statusMessage(order *domain.Order) string {
	switch order.Status {
	case domain.OrderStatusShipped:
		return fmt.Sprintf("Your order %s is on its way.", order.ID)
	case domain.OrderStatusDelivered:
		return fmt.Sprintf("Your order %s has been delivered.", order.ID)
	default:
		return fmt.Sprintf("Your order %s is now %s.", order.ID, order.Status)
	}
}
