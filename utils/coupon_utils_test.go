package utils

import (
	"testing"

	"github.com/chronocraft/chronocraft/models"
	"github.com/stretchr/testify/assert"
)

func TestCouponDiscountPercentage(t *testing.T) {
	coupon := models.Coupon{
		DiscountType:  models.DiscountTypePercentage,
		DiscountValue: 20,
	}
	assert.Equal(t, 1200.0, CouponDiscount(coupon, 6000))
}

func TestCouponDiscountPercentageCapped(t *testing.T) {
	coupon := models.Coupon{
		DiscountType:      models.DiscountTypePercentage,
		DiscountValue:     20,
		MaxDiscountAmount: 1000,
	}
	assert.Equal(t, 1000.0, CouponDiscount(coupon, 6000))
}

func TestCouponDiscountFixed(t *testing.T) {
	coupon := models.Coupon{
		DiscountType:  models.DiscountTypeFixed,
		DiscountValue: 250,
	}
	assert.Equal(t, 250.0, CouponDiscount(coupon, 6000))
}

func TestValidateCouponForCreate(t *testing.T) {
	base := models.Coupon{
		Code:              "SUMMER20",
		DiscountType:      models.DiscountTypePercentage,
		DiscountValue:     20,
		MinPurchaseAmount: 2000,
		MaxDiscountAmount: 1000,
		ValidFrom:         "2024-05-01",
		ValidUntil:        "2024-05-31",
		PerUserLimit:      1,
	}
	assert.NoError(t, ValidateCouponForCreate(base))

	tests := []struct {
		name   string
		mutate func(*models.Coupon)
	}{
		{"lowercase code", func(c *models.Coupon) { c.Code = "summer20" }},
		{"percentage above 90", func(c *models.Coupon) { c.DiscountValue = 95 }},
		{"zero value", func(c *models.Coupon) { c.DiscountValue = 0 }},
		{"unknown type", func(c *models.Coupon) { c.DiscountType = "bogo" }},
		{"max discount at min purchase", func(c *models.Coupon) { c.MaxDiscountAmount = 2000 }},
		{"bad date format", func(c *models.Coupon) { c.ValidFrom = "01-05-2024" }},
		{"inverted window", func(c *models.Coupon) { c.ValidFrom = "2024-06-01" }},
		{"zero per-user limit", func(c *models.Coupon) { c.PerUserLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := base
			tt.mutate(&coupon)
			err := ValidateCouponForCreate(coupon)
			assert.Error(t, err)
			assert.True(t, IsKind(err, KindValidation))
		})
	}
}

func TestValidateCouponForCreateNinetyPercentAllowed(t *testing.T) {
	coupon := models.Coupon{
		Code:              "MEGA90",
		DiscountType:      models.DiscountTypePercentage,
		DiscountValue:     90,
		MinPurchaseAmount: 5000,
		MaxDiscountAmount: 1000,
		ValidFrom:         "2024-05-01",
		ValidUntil:        "2024-05-31",
		PerUserLimit:      1,
	}
	assert.NoError(t, ValidateCouponForCreate(coupon))
}

func TestValidCouponCode(t *testing.T) {
	assert.True(t, ValidCouponCode("SUMMER20"))
	assert.True(t, ValidCouponCode("A"))
	assert.False(t, ValidCouponCode("summer20"))
	assert.False(t, ValidCouponCode(""))
	assert.False(t, ValidCouponCode("THISCODEISWAYTOOLONG"))
	assert.False(t, ValidCouponCode("HAS SPACE"))
}
