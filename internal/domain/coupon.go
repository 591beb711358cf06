package domain

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Coupon struct {
	Code             string       `json:"code"`
	DiscountType     DiscountType `json:"discount_type"`
	DiscountValue    int64        `json:"discount_value"`
	MinPurchaseCents int64        `json:"min_purchase_cents"`
	MaxDiscountCents int64        `json:"max_discount_cents"`
	ValidFrom        time.Time    `json:"valid_from"`
	ValidUntil       time.Time    `json:"valid_until"`
	UsageLimit       int          `json:"usage_limit"`
	TimesUsed        int          `json:"times_used"`
	Active           bool         `json:"active"`
}

// DiscountCents computes the discount for an order amount, clamped to the
// coupon's cap and never exceeding the amount itself. For percentage
// coupons DiscountValue is a whole percent; division rounds half up.
func (c *Coupon) DiscountCents(amountCents int64) int64 {
	var discount int64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = (amountCents*c.DiscountValue + 50) / 100
	case DiscountFixed:
		discount = c.DiscountValue
	}
	if c.MaxDiscountCents > 0 && discount > c.MaxDiscountCents {
		discount = c.MaxDiscountCents
	}
	if discount > amountCents {
		discount = amountCents
	}
	return discount
}
