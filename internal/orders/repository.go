package orders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/aymanbest/Local-market-backend-sub000/internal/coupon"
	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
	"github.com/aymanbest/Local-market-backend-sub000/internal/stock"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateBundle persists every sibling order of one checkout, their items,
// coupon usage and stock holds in a single transaction. Bundle creation is
// all-or-nothing: a stock shortfall or exhausted coupon on any order rolls
// the whole checkout back.
func (r *Repository) CreateBundle(ctx context.Context, bundle []*domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, order := range bundle {
		order.ID = uuid.New().String()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (id, customer_id, email, shipping_address, phone, status,
				total_cents, coupon_code, access_token, token_expires_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		`, order.ID, nullString(order.CustomerID), order.Email, order.ShippingAddress,
			order.Phone, order.Status, order.TotalCents, nullString(order.CouponCode),
			order.AccessToken, order.TokenExpiresAt, order.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range order.Items {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (id, order_id, product_id, quantity, price_cents)
				VALUES ($1, $2, $3, $4, $5)
			`, uuid.New().String(), order.ID, item.ProductID, item.Quantity, item.PriceCents)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		if order.CouponCode != "" {
			if err := coupon.Apply(ctx, tx, order.CouponCode); err != nil {
				return err
			}
		}

		if err := stock.Reserve(ctx, tx, order.ID, order.Items, order.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID returns (nil, nil) when the order does not exist.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	order := &domain.Order{}
	var customerID, couponCode sql.NullString

	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, email, shipping_address, phone, status,
		       total_cents, coupon_code, access_token, token_expires_at, created_at
		FROM orders
		WHERE id = $1
	`, id).Scan(&order.ID, &customerID, &order.Email, &order.ShippingAddress,
		&order.Phone, &order.Status, &order.TotalCents, &couponCode,
		&order.AccessToken, &order.TokenExpiresAt, &order.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	order.CustomerID = customerID.String
	order.CouponCode = couponCode.String

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, quantity, price_cents
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.PriceCents); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	payment, err := r.paymentByOrderID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Payment = payment

	return order, nil
}

// ListByToken loads every sibling order sharing a bundle access token,
// oldest first, with items and payments batched instead of fetched per
// order.
func (r *Repository) ListByToken(ctx context.Context, accessToken string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, email, shipping_address, phone, status,
		       total_cents, coupon_code, access_token, token_expires_at, created_at
		FROM orders
		WHERE access_token = $1
		ORDER BY created_at, id
	`, accessToken)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	orderMap := make(map[string]*domain.Order)
	var orderIDs []string

	for rows.Next() {
		var order domain.Order
		var customerID, couponCode sql.NullString
		if err := rows.Scan(&order.ID, &customerID, &order.Email, &order.ShippingAddress,
			&order.Phone, &order.Status, &order.TotalCents, &couponCode,
			&order.AccessToken, &order.TokenExpiresAt, &order.CreatedAt); err != nil {
			return nil, err
		}
		order.CustomerID = customerID.String
		order.CouponCode = couponCode.String
		order.Items = []domain.OrderItem{}
		orderMap[order.ID] = &order
		orderIDs = append(orderIDs, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orderIDs) == 0 {
		return []domain.Order{}, nil
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT order_id, product_id, quantity, price_cents
		FROM order_items
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = itemRows.Close() }()

	for itemRows.Next() {
		var orderID string
		var item domain.OrderItem
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.PriceCents); err != nil {
			return nil, err
		}
		orderMap[orderID].Items = append(orderMap[orderID].Items, item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	paymentRows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, amount_cents, method, status, transaction_id, created_at
		FROM payments
		WHERE order_id = ANY($1)
	`, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = paymentRows.Close() }()

	for paymentRows.Next() {
		var p domain.Payment
		if err := paymentRows.Scan(&p.ID, &p.OrderID, &p.AmountCents, &p.Method,
			&p.Status, &p.TransactionID, &p.CreatedAt); err != nil {
			return nil, err
		}
		orderMap[p.OrderID].Payment = &p
	}
	if err := paymentRows.Err(); err != nil {
		return nil, err
	}

	bundle := make([]domain.Order, 0, len(orderIDs))
	for _, id := range orderIDs {
		bundle = append(bundle, *orderMap[id])
	}

	return bundle, nil
}

// SellerOwns reports whether the seller owns at least one line item of the
// order.
func (r *Repository) SellerOwns(ctx context.Context, orderID, sellerID string) (bool, error) {
	var owns bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			WHERE oi.order_id = $1 AND p.seller_id = $2
		)
	`, orderID, sellerID).Scan(&owns)
	return owns, err
}

// UpdateStatus writes the new status and returns the refreshed order, or
// (nil, nil) when the order does not exist.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = now()
		WHERE id = $2
	`, status, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// SettleBundle marks every order of the bundle PAYMENT_COMPLETED, confirms
// its stock holds and attaches one payment row per order, all in one
// transaction. Rows are locked and statuses re-checked under the lock so a
// concurrent duplicate settlement fails instead of double-writing. The
// first order keeps the gateway transaction id; each sibling gets a "-N"
// suffixed clone pointing at the same charge.
func (r *Repository) SettleBundle(ctx context.Context, accessToken string, payment domain.Payment) ([]domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	ids, err := lockBundle(ctx, tx, accessToken, true)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.E(domain.KindOrderNotFound, "no orders for access token")
	}

	now := time.Now().UTC()
	for i, orderID := range ids {
		if _, err := tx.ExecContext(ctx, `
			UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
		`, domain.OrderStatusPaymentCompleted, now, orderID); err != nil {
			return nil, err
		}

		if err := stock.Confirm(ctx, tx, orderID); err != nil {
			return nil, err
		}

		transactionID := payment.TransactionID
		if i > 0 {
			transactionID = fmt.Sprintf("%s-%d", payment.TransactionID, i)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payments (id, order_id, amount_cents, method, status, transaction_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, uuid.New().String(), orderID, payment.AmountCents, payment.Method,
			payment.Status, transactionID, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.ListByToken(ctx, accessToken)
}

// FailBundle marks every still-pending order of the bundle PAYMENT_FAILED
// and releases its stock holds, in one transaction.
func (r *Repository) FailBundle(ctx context.Context, accessToken string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	ids, err := lockBundle(ctx, tx, accessToken, false)
	if err != nil {
		return err
	}

	for _, orderID := range ids {
		if _, err := tx.ExecContext(ctx, `
			UPDATE orders SET status = $1, updated_at = now()
			WHERE id = $2 AND status = $3
		`, domain.OrderStatusPaymentFailed, orderID, domain.OrderStatusPendingPayment); err != nil {
			return err
		}
		if err := stock.Release(ctx, tx, orderID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// lockBundle locks the bundle's order rows. With requirePending set it
// rejects any order not in PENDING_PAYMENT, which is the settlement
// idempotency guard: a second attempt against an already-settled bundle
// fails under the lock instead of writing twice.
func lockBundle(ctx context.Context, tx *sql.Tx, accessToken string, requirePending bool) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, status
		FROM orders
		WHERE access_token = $1
		ORDER BY created_at, id
		FOR UPDATE
	`, accessToken)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		var status domain.OrderStatus
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		if requirePending && status != domain.OrderStatusPendingPayment {
			return nil, domain.E(domain.KindInvalidRequest, "order %s is %s, not awaiting payment", id, status)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repository) paymentByOrderID(ctx context.Context, orderID string) (*domain.Payment, error) {
	payment := &domain.Payment{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, amount_cents, method, status, transaction_id, created_at
		FROM payments
		WHERE order_id = $1
	`, orderID).Scan(&payment.ID, &payment.OrderID, &payment.AmountCents,
		&payment.Method, &payment.Status, &payment.TransactionID, &payment.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
