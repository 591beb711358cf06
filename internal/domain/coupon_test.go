package domain

import "testing"

func TestCoupon_DiscountCents(t *testing.T) {
	t.Run("percentage rounds half up", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountPercentage, DiscountValue: 15}
		if got := c.DiscountCents(1050); got != 158 {
			t.Errorf("expected 158, got %d", got)
		}
	})

	t.Run("percentage respects max discount cap", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountPercentage, DiscountValue: 50, MaxDiscountCents: 1000}
		if got := c.DiscountCents(10000); got != 1000 {
			t.Errorf("expected 1000, got %d", got)
		}
	})

	t.Run("fixed discount", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountFixed, DiscountValue: 500}
		if got := c.DiscountCents(2000); got != 500 {
			t.Errorf("expected 500, got %d", got)
		}
	})

	t.Run("fixed discount never exceeds the amount", func(t *testing.T) {
		c := &Coupon{DiscountType: DiscountFixed, DiscountValue: 500}
		if got := c.DiscountCents(300); got != 300 {
			t.Errorf("expected 300, got %d", got)
		}
	})
}
