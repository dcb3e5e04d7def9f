package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCouponValidOn(t *testing.T) {
	coupon := Coupon{ValidFrom: "2024-05-01", ValidUntil: "2024-05-31"}

	assert.True(t, coupon.ValidOn("2024-05-01"), "window start is inclusive")
	assert.True(t, coupon.ValidOn("2024-05-31"), "window end is inclusive")
	assert.True(t, coupon.ValidOn("2024-05-15"))
	assert.False(t, coupon.ValidOn("2024-04-30"))
	assert.False(t, coupon.ValidOn("2024-06-01"))
}

func TestCouponUsageExhausted(t *testing.T) {
	limit := 10
	coupon := Coupon{UsageLimit: &limit, UsageCount: 9}
	assert.False(t, coupon.UsageExhausted())

	coupon.UsageCount = 10
	assert.True(t, coupon.UsageExhausted())

	unlimited := Coupon{UsageLimit: nil, UsageCount: 100000}
	assert.False(t, unlimited.UsageExhausted())
}
