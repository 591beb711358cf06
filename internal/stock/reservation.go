// Package stock holds, confirms and releases inventory. Quantity mutation
// is a conditional update per product row, so two concurrent buyers cannot
// both take the last unit: the losing update matches zero rows.
package stock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

// HoldDuration is how long a reservation stays valid without confirmation.
const HoldDuration = 15 * time.Minute

// Querier is the subset of *sql.DB and *sql.Tx the reservation helpers
// need. Checkout and settlement call them inside their own transactions so
// order writes and stock writes commit or roll back together.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Reserve decrements on-hand quantity for every item and records a hold
// with a 15-minute expiry. A shortfall on any item returns
// INSUFFICIENT_STOCK; running inside a transaction makes the partial
// decrements roll back with it.
func Reserve(ctx context.Context, q Querier, orderID string, items []domain.OrderItem, now time.Time) error {
	expiresAt := now.Add(HoldDuration)

	for _, item := range items {
		result, err := q.ExecContext(ctx, `
			UPDATE products
			SET quantity = quantity - $2, updated_at = $3
			WHERE id = $1 AND quantity >= $2
		`, item.ProductID, item.Quantity, now)
		if err != nil {
			return fmt.Errorf("decrement stock for product %s: %w", item.ProductID, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return domain.E(domain.KindInsufficientStock, "insufficient stock for product %s", item.ProductID)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO stock_reservations (id, order_id, product_id, quantity, created_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New().String(), orderID, item.ProductID, item.Quantity, now, expiresAt)
		if err != nil {
			return fmt.Errorf("record reservation for product %s: %w", item.ProductID, err)
		}
	}

	return nil
}

// Confirm deletes the order's holds; the decrement applied at reserve time
// becomes permanent.
func Confirm(ctx context.Context, q Querier, orderID string) error {
	if _, err := q.ExecContext(ctx, `
		DELETE FROM stock_reservations WHERE order_id = $1
	`, orderID); err != nil {
		return fmt.Errorf("confirm reservations for order %s: %w", orderID, err)
	}
	return nil
}

// Release deletes the order's holds and restores the held quantity.
func Release(ctx context.Context, q Querier, orderID string) error {
	rows, err := q.QueryContext(ctx, `
		DELETE FROM stock_reservations
		WHERE order_id = $1
		RETURNING product_id, quantity
	`, orderID)
	if err != nil {
		return fmt.Errorf("release reservations for order %s: %w", orderID, err)
	}
	defer func() { _ = rows.Close() }()

	type held struct {
		productID string
		quantity  int
	}
	var releases []held
	for rows.Next() {
		var h held
		if err := rows.Scan(&h.productID, &h.quantity); err != nil {
			return err
		}
		releases = append(releases, h)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, h := range releases {
		if _, err := q.ExecContext(ctx, `
			UPDATE products SET quantity = quantity + $2, updated_at = now() WHERE id = $1
		`, h.productID, h.quantity); err != nil {
			return fmt.Errorf("restore stock for product %s: %w", h.productID, err)
		}
	}

	return nil
}
