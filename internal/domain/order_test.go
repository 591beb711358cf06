package domain

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderStatusPendingPayment, OrderStatusPaymentCompleted},
		{OrderStatusPendingPayment, OrderStatusPaymentFailed},
		{OrderStatusPaymentCompleted, OrderStatusProcessing},
		{OrderStatusPaymentCompleted, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusShipped},
		{OrderStatusProcessing, OrderStatusCancelled},
		{OrderStatusShipped, OrderStatusDelivered},
		{OrderStatusShipped, OrderStatusCancelled},
		{OrderStatusDelivered, OrderStatusReturned},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	forbidden := []struct{ from, to OrderStatus }{
		{OrderStatusProcessing, OrderStatusDelivered},
		{OrderStatusPendingPayment, OrderStatusShipped},
		{OrderStatusShipped, OrderStatusProcessing},
		{OrderStatusDelivered, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusProcessing},
		{OrderStatusReturned, OrderStatusDelivered},
		{OrderStatusPaymentFailed, OrderStatusPaymentCompleted},
		{OrderStatusPaymentCompleted, OrderStatusPaymentCompleted},
	}
	for _, tc := range forbidden {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestCanTransition_FulfillmentSequence(t *testing.T) {
	path := []OrderStatus{
		OrderStatusPendingPayment,
		OrderStatusPaymentCompleted,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusReturned,
	}
	for i := 1; i < len(path); i++ {
		if !CanTransition(path[i-1], path[i]) {
			t.Fatalf("expected %s -> %s to be allowed", path[i-1], path[i])
		}
	}
}

func TestCanTransition_TerminalStatuses(t *testing.T) {
	terminals := []OrderStatus{OrderStatusPaymentFailed, OrderStatusCancelled, OrderStatusReturned}
	all := []OrderStatus{
		OrderStatusPendingPayment, OrderStatusPaymentFailed, OrderStatusPaymentCompleted,
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusReturned,
	}
	for _, from := range terminals {
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("expected terminal %s to reject transition to %s", from, to)
			}
		}
	}
}

func TestIsPaymentStatus(t *testing.T) {
	if !IsPaymentStatus(OrderStatusPaymentCompleted) || !IsPaymentStatus(OrderStatusPaymentFailed) {
		t.Error("expected payment statuses to be flagged")
	}
	if IsPaymentStatus(OrderStatusPendingPayment) || IsPaymentStatus(OrderStatusShipped) {
		t.Error("expected non-payment statuses not to be flagged")
	}
}

func TestValidOrderStatus(t *testing.T) {
	if !ValidOrderStatus(OrderStatusProcessing) {
		t.Error("expected PROCESSING to be valid")
	}
	if ValidOrderStatus("SHIPPING") {
		t.Error("expected unknown status to be invalid")
	}
	if ValidOrderStatus("") {
		t.Error("expected empty status to be invalid")
	}
}
