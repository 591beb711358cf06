package domain

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment   OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaymentFailed    OrderStatus = "PAYMENT_FAILED"
	OrderStatusPaymentCompleted OrderStatus = "PAYMENT_COMPLETED"
	OrderStatusProcessing       OrderStatus = "PROCESSING"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
	OrderStatusReturned         OrderStatus = "RETURNED"
)

// validNext encodes the fulfillment state machine. Absent sources are
// terminal.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPendingPayment:   {OrderStatusPaymentCompleted: true, OrderStatusPaymentFailed: true},
	OrderStatusPaymentCompleted: {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing:       {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:          {OrderStatusDelivered: true, OrderStatusCancelled: true},
	OrderStatusDelivered:        {OrderStatusReturned: true},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

// IsPaymentStatus reports whether a status may only be written by payment
// settlement, never by a seller call.
func IsPaymentStatus(s OrderStatus) bool {
	return s == OrderStatusPaymentCompleted || s == OrderStatusPaymentFailed
}

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaymentFailed, OrderStatusPaymentCompleted,
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// Order is one seller's share of a checkout. All sibling orders from the
// same checkout share an AccessToken.
type Order struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customer_id,omitempty"`
	Email           string      `json:"email"`
	ShippingAddress string      `json:"shipping_address"`
	Phone           string      `json:"phone"`
	Status          OrderStatus `json:"status"`
	TotalCents      int64       `json:"total_cents"`
	CouponCode      string      `json:"coupon_code,omitempty"`
	Items           []OrderItem `json:"items"`
	Payment         *Payment    `json:"payment,omitempty"`
	AccessToken     string      `json:"access_token"`
	TokenExpiresAt  time.Time   `json:"token_expires_at"`
	CreatedAt       time.Time   `json:"created_at"`
}
