package utils

import (
	"testing"

	"github.com/chronocraft/chronocraft/models"
	"github.com/stretchr/testify/assert"
)

func TestOrderTotals(t *testing.T) {
	pricing := OrderTotals(6000, 1000)

	assert.Equal(t, 6000.0, pricing.Subtotal)
	assert.Equal(t, 720.0, pricing.Tax, "12%% GST on subtotal")
	assert.Equal(t, 100.0, pricing.ShippingFee)
	assert.Equal(t, 1000.0, pricing.Discount)
	assert.Equal(t, 5820.0, pricing.FinalAmount)
}

func TestOrderTotalsNoDiscount(t *testing.T) {
	pricing := OrderTotals(1000, 0)
	assert.Equal(t, 120.0, pricing.Tax)
	assert.Equal(t, 1220.0, pricing.FinalAmount)
}

func TestEffectiveUnitPrice(t *testing.T) {
	variant := models.Variant{Price: 10000, SalePrice: 8500}

	// No offer: manual sale price wins.
	assert.Equal(t, 8500.0, EffectiveUnitPrice(variant, 0))

	// 20% offer beats the manual sale price. Sale price and offer never
	// compound.
	assert.Equal(t, 8000.0, EffectiveUnitPrice(variant, 20))

	// 10% offer loses to the deeper manual sale price.
	assert.Equal(t, 8500.0, EffectiveUnitPrice(variant, 10))

	// No manual sale price: offer applies to the base price, rounded to
	// the nearest rupee.
	noSale := models.Variant{Price: 3333}
	assert.Equal(t, 2833.0, EffectiveUnitPrice(noSale, 15))
}

func TestItemRefundProration(t *testing.T) {
	// Two equal lines of 2000 each, no coupon. Cancelling one refunds its
	// subtotal plus half the tax; shipping is never prorated.
	item := models.OrderItem{Price: 1000, Quantity: 2}
	refund := ItemRefund(item, 4000, 480, 0)
	assert.Equal(t, 2240.0, refund)
}

func TestItemRefundWithCoupon(t *testing.T) {
	// Line carries its proportional share of the coupon discount.
	item := models.OrderItem{Price: 3000, Quantity: 1}
	refund := ItemRefund(item, 6000, 720, 1000)
	// 3000 + 360 - 500
	assert.Equal(t, 2860.0, refund)
}

func TestItemRefundNeverNegative(t *testing.T) {
	item := models.OrderItem{Price: 10, Quantity: 1}
	refund := ItemRefund(item, 100, 12, 5000)
	assert.Equal(t, 0.0, refund)
}

func TestItemRefundZeroSubtotal(t *testing.T) {
	item := models.OrderItem{Price: 100, Quantity: 1}
	assert.Equal(t, 0.0, ItemRefund(item, 0, 0, 0))
}

func TestRepriceAfterItemRemoval(t *testing.T) {
	original := OrderTotals(4000, 0)
	repriced := RepriceAfterItemRemoval(original, 2000, 0)

	assert.Equal(t, 2000.0, repriced.Subtotal)
	assert.Equal(t, 240.0, repriced.Tax)
	assert.Equal(t, 100.0, repriced.ShippingFee, "shipping survives item removal")
	assert.Equal(t, 2340.0, repriced.FinalAmount)
}

func TestRepriceAfterItemRemovalWithCoupon(t *testing.T) {
	original := OrderTotals(6000, 1000)
	// Remove a 3000 line carrying half the discount.
	repriced := RepriceAfterItemRemoval(original, 3000, 500)

	assert.Equal(t, 3000.0, repriced.Subtotal)
	assert.Equal(t, 360.0, repriced.Tax)
	assert.Equal(t, 500.0, repriced.Discount)
	assert.Equal(t, 2960.0, repriced.FinalAmount)
}

func TestItemDiscountShare(t *testing.T) {
	item := models.OrderItem{Price: 3000, Quantity: 1}
	assert.Equal(t, 500.0, ItemDiscountShare(item, 6000, 1000))
	assert.Equal(t, 0.0, ItemDiscountShare(item, 6000, 0))
	assert.Equal(t, 0.0, ItemDiscountShare(item, 0, 1000))
}

func TestCODAvailable(t *testing.T) {
	assert.True(t, CODAvailable(4999))
	assert.True(t, CODAvailable(5000), "limit itself is allowed")
	assert.False(t, CODAvailable(5500))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.56, RoundMoney(10.556))
	assert.Equal(t, 10.55, RoundMoney(10.554))
	assert.Equal(t, 10.0, RoundMoney(10.0))
	assert.Equal(t, -2.33, RoundMoney(-2.334))
}
