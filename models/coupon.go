package models

import (
	"time"

	"gorm.io/gorm"
)

// Discount type constants
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a cart-level discount code. ValidFrom/ValidUntil are stored as
// YYYY-MM-DD strings and compared lexically, inclusive on both ends.
// UsageLimit nil means unlimited global usage.
type Coupon struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Code              string         `gorm:"uniqueIndex" json:"code"`
	Description       string         `json:"description"`
	DiscountType      string         `json:"discount_type"`
	DiscountValue     float64        `json:"discount_value"`
	MinPurchaseAmount float64        `json:"min_purchase_amount"`
	MaxDiscountAmount float64        `json:"max_discount_amount"`
	ValidFrom         string         `json:"valid_from"`
	ValidUntil        string         `json:"valid_until"`
	UsageLimit        *int           `json:"usage_limit"`
	UsageCount        int            `json:"usage_count"`
	PerUserLimit      int            `gorm:"default:1" json:"per_user_limit"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// ValidOn reports whether the coupon's window contains the given day.
// Dates are YYYY-MM-DD strings, so lexical comparison matches calendar
// order; both ends are inclusive.
func (c Coupon) ValidOn(day string) bool {
	return c.ValidFrom <= day && day <= c.ValidUntil
}

// UsageExhausted reports whether the global usage limit has been reached.
// Enforced at apply time only; eligibility listing does not consult it.
func (c Coupon) UsageExhausted() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}
