package domain

import "time"

// StockReservation is a time-boxed hold on product quantity. The decrement
// happens when the hold is created; confirm makes it permanent by deleting
// the row, release (or the expiry sweep) restores the quantity.
type StockReservation struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
