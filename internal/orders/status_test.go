package orders

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

type fakeStatusStore struct {
	order   *domain.Order
	owner   string
	updated []domain.OrderStatus
}

func (f *fakeStatusStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, nil
	}
	return f.order, nil
}

func (f *fakeStatusStore) SellerOwns(_ context.Context, _, sellerID string) (bool, error) {
	return sellerID == f.owner, nil
}

func (f *fakeStatusStore) UpdateStatus(_ context.Context, _ string, status domain.OrderStatus) (*domain.Order, error) {
	f.updated = append(f.updated, status)
	updated := *f.order
	updated.Status = status
	return &updated, nil
}

type statusEvents struct {
	events []domain.OrderStatusEvent
}

func (n *statusEvents) OrderStatusChanged(_ context.Context, e domain.OrderStatusEvent) {
	n.events = append(n.events, e)
}

func newStatusFixture(status domain.OrderStatus) (*StatusService, *fakeStatusStore, *statusEvents) {
	store := &fakeStatusStore{
		order: &domain.Order{ID: "order-1", Email: "alice@example.com", Status: status},
		owner: "seller-a",
	}
	notifier := &statusEvents{}
	svc := NewStatusService(store, notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, store, notifier
}

func TestStatusService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a valid transition and notifies the customer", func(t *testing.T) {
		svc, store, notifier := newStatusFixture(domain.OrderStatusPaymentCompleted)

		updated, err := svc.UpdateOrderStatus(ctx, "order-1", domain.OrderStatusProcessing, "seller-a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.OrderStatusProcessing {
			t.Errorf("expected PROCESSING, got %s", updated.Status)
		}
		if len(store.updated) != 1 {
			t.Errorf("expected 1 write, got %d", len(store.updated))
		}
		if len(notifier.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(notifier.events))
		}
		if notifier.events[0].Email != "alice@example.com" {
			t.Errorf("unexpected event email: %s", notifier.events[0].Email)
		}
	})

	t.Run("shipped and delivered get their own messages", func(t *testing.T) {
		svc, _, notifier := newStatusFixture(domain.OrderStatusProcessing)
		if _, err := svc.UpdateOrderStatus(ctx, "order-1", domain.OrderStatusShipped, "seller-a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(notifier.events[0].Message, "on its way") {
			t.Errorf("unexpected shipped message: %s", notifier.events[0].Message)
		}

		svc, _, notifier = newStatusFixture(domain.OrderStatusShipped)
		if _, err := svc.UpdateOrderStatus(ctx, "order-1", domain.OrderStatusDelivered, "seller-a"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(notifier.events[0].Message, "has been delivered") {
			t.Errorf("unexpected delivered message: %s", notifier.events[0].Message)
		}
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		svc, _, _ := newStatusFixture(domain.OrderStatusProcessing)
		_, err := svc.UpdateOrderStatus(ctx, "order-1", "SHIPPING", "seller-a")
		if domain.KindOf(err) != domain.KindValidationFailed {
			t.Errorf("expected VALIDATION_FAILED, got %v", err)
		}
	})

	t.Run("rejects an unknown order", func(t *testing.T) {
		svc, _, _ := newStatusFixture(domain.OrderStatusProcessing)
		_, err := svc.UpdateOrderStatus(ctx, "order-404", domain.OrderStatusShipped, "seller-a")
		if domain.KindOf(err) != domain.KindOrderNotFound {
			t.Errorf("expected ORDER_NOT_FOUND, got %v", err)
		}
	})

	t.Run("rejects a seller with no item in the order", func(t *testing.T) {
		svc, store, notifier := newStatusFixture(domain.OrderStatusProcessing)
		_, err := svc.UpdateOrderStatus(ctx, "order-1", domain.OrderStatusShipped, "seller-b")
		if domain.KindOf(err) != domain.KindAccessDenied {
			t.Errorf("expected ACCESS_DENIED, got %v", err)
		}
		if len(store.updated) != 0 || len(notifier.events) != 0 {
			t.Error("expected no write and no event")
		}
	})

	t.Run("rejects payment statuses from sellers", func(t *testing.T) {
		svc, _, _ := newStatusFixture(domain.OrderStatusPendingPayment)
		for _, next := range []domain.OrderStatus{domain.OrderStatusPaymentCompleted, domain.OrderStatusPaymentFailed} {
			_, err := svc.UpdateOrderStatus(ctx, "order-1", next, "seller-a")
			if domain.KindOf(err) != domain.KindAccessDenied {
				t.Errorf("expected ACCESS_DENIED for %s, got %v", next, err)
			}
		}
	})

	t.Run("rejects transitions the state machine forbids", func(t *testing.T) {
		svc, store, _ := newStatusFixture(domain.OrderStatusProcessing)
		_, err := svc.UpdateOrderStatus(ctx, "order-1", domain.OrderStatusDelivered, "seller-a")
		if domain.KindOf(err) != domain.KindInvalidStatusTransition {
			t.Errorf("expected INVALID_STATUS_TRANSITION, got %v", err)
		}
		if len(store.updated) != 0 {
			t.Error("expected no write")
		}
	})
}
