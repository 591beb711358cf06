package domain

import "time"

// SellerOrderCreatedEvent tells a seller a new order is waiting for payment.
type SellerOrderCreatedEvent struct {
	OrderID    string      `json:"order_id"`
	SellerID   string      `json:"seller_id"`
	TotalCents int64       `json:"total_cents"`
	Items      []OrderItem `json:"items"`
	Timestamp  time.Time   `json:"timestamp"`
}

// OrderConfirmationEvent is the buyer-facing checkout confirmation. A
// multi-seller checkout emits one consolidated event covering every sibling
// order; a single-seller checkout emits one event with one order id.
type OrderConfirmationEvent struct {
	Email        string    `json:"email"`
	OrderIDs     []string  `json:"order_ids"`
	TotalCents   int64     `json:"total_cents"`
	Consolidated bool      `json:"consolidated"`
	Timestamp    time.Time `json:"timestamp"`
}

// OrderStatusEvent notifies the buyer of a fulfillment transition. Message
// carries the customer-facing wording, which differs for shipped and
// delivered transitions.
type OrderStatusEvent struct {
	OrderID   string      `json:"order_id"`
	Email     string      `json:"email"`
	Status    OrderStatus `json:"status"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}
