package stock

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Sweeper periodically releases reservations whose holds expired without
// confirmation, restoring availability for abandoned carts. It runs
// independently of request handling; a failed sweep is logged and retried
// on the next tick.
type Sweeper struct {
	db       *sql.DB
	interval time.Duration
	logger   *slog.Logger
}

func NewSweeper(db *sql.DB, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{db: db, interval: interval, logger: logger}
}

func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reservation sweeper stopped")
			return
		case <-ticker.C:
			released, err := s.sweep(ctx)
			if err != nil {
				s.logger.Error("reservation sweep failed", "error", err)
				continue
			}
			if released > 0 {
				s.logger.Info("expired reservations released", "count", released)
			}
		}
	}
}

// sweep releases every expired hold in one transaction. SKIP LOCKED keeps
// the sweep from stalling behind an in-flight settlement on the same rows.
func (s *Sweeper) sweep(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, product_id, quantity
		FROM stock_reservations
		WHERE expires_at <= now()
		FOR UPDATE SKIP LOCKED
	`)
	if err != nil {
		return 0, err
	}

	type expired struct {
		id        string
		productID string
		quantity  int
	}
	var holds []expired
	for rows.Next() {
		var e expired
		if err := rows.Scan(&e.id, &e.productID, &e.quantity); err != nil {
			_ = rows.Close()
			return 0, err
		}
		holds = append(holds, e)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	for _, h := range holds {
		if _, err := tx.ExecContext(ctx, `
			UPDATE products SET quantity = quantity + $2, updated_at = now() WHERE id = $1
		`, h.productID, h.quantity); err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM stock_reservations WHERE id = $1
		`, h.id); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(holds), nil
}
