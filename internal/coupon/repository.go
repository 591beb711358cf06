package coupon

import (
	"context"
	"database/sql"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
	"github.com/aymanbest/Local-market-backend-sub000/internal/stock"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// ByCode returns (nil, nil) for an unknown code.
func (r *Repository) ByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	coupon := &domain.Coupon{}

	err := r.db.QueryRowContext(ctx, `
		SELECT code, discount_type, discount_value, min_purchase_cents, max_discount_cents,
		       valid_from, valid_until, usage_limit, times_used, active
		FROM coupons
		WHERE code = $1
	`, code).Scan(&coupon.Code, &coupon.DiscountType, &coupon.DiscountValue,
		&coupon.MinPurchaseCents, &coupon.MaxDiscountCents,
		&coupon.ValidFrom, &coupon.ValidUntil,
		&coupon.UsageLimit, &coupon.TimesUsed, &coupon.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return coupon, nil
}

// Apply counts one use of the coupon. The conditional update keeps
// times_used at or below the usage limit no matter how many orders apply
// the code concurrently; it runs inside the bundle-creation transaction so
// a failed checkout never burns a use.
func Apply(ctx context.Context, q stock.Querier, code string) error {
	result, err := q.ExecContext(ctx, `
		UPDATE coupons
		SET times_used = times_used + 1
		WHERE code = $1 AND active AND (usage_limit = 0 OR times_used < usage_limit)
	`, code)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.E(domain.KindValidationFailed, "coupon %s is no longer available", code)
	}

	return nil
}
