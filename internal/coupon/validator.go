// Package coupon computes discounts and accounts for coupon usage.
package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/aymanbest/Local-market-backend-sub000/internal/domain"
)

// Result is the outcome of validating a coupon against an order amount.
// Ineligibility is reported through Valid=false and Message, not an error.
type Result struct {
	Valid           bool   `json:"valid"`
	DiscountCents   int64  `json:"discount_cents"`
	FinalPriceCents int64  `json:"final_price_cents"`
	Message         string `json:"message,omitempty"`
}

type Getter interface {
	ByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type Validator struct {
	coupons Getter
	now     func() time.Time
}

func NewValidator(coupons Getter) *Validator {
	return &Validator{coupons: coupons, now: time.Now}
}

// NewValidatorAt pins the clock, for tests.
func NewValidatorAt(coupons Getter, now func() time.Time) *Validator {
	return &Validator{coupons: coupons, now: now}
}

// Validate fails closed: any ineligible coupon yields Valid=false with a
// message. Only lookup failures return an error.
func (v *Validator) Validate(ctx context.Context, code string, amountCents int64) (Result, error) {
	coupon, err := v.coupons.ByCode(ctx, code)
	if err != nil {
		return Result{}, fmt.Errorf("look up coupon %s: %w", code, err)
	}

	if invalid := v.eligibility(coupon, amountCents); invalid != "" {
		return Result{Valid: false, FinalPriceCents: amountCents, Message: invalid}, nil
	}

	discount := coupon.DiscountCents(amountCents)
	return Result{
		Valid:           true,
		DiscountCents:   discount,
		FinalPriceCents: amountCents - discount,
	}, nil
}

func (v *Validator) eligibility(coupon *domain.Coupon, amountCents int64) string {
	now := v.now()

	switch {
	case coupon == nil:
		return "coupon not found"
	case !coupon.Active:
		return "coupon is not active"
	case now.Before(coupon.ValidFrom):
		return "coupon is not yet valid"
	case now.After(coupon.ValidUntil):
		return "coupon has expired"
	case coupon.UsageLimit > 0 && coupon.TimesUsed >= coupon.UsageLimit:
		return "coupon usage limit reached"
	case amountCents < coupon.MinPurchaseCents:
		return fmt.Sprintf("order amount is below the minimum purchase of %d cents", coupon.MinPurchaseCents)
	}
	return ""
}
