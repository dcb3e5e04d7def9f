package utils

import (
	"fmt"
	"regexp"
	"time"

	"github.com/chronocraft/chronocraft/models"
	"gorm.io/gorm"
)

var couponCodePattern = regexp.MustCompile(`^[A-Z0-9]{1,15}$`)

// ValidCouponCode reports whether a code is uppercase alphanumeric, 1-15
// characters.
func ValidCouponCode(code string) bool {
	return couponCodePattern.MatchString(code)
}

// Today returns the current day as a YYYY-MM-DD string, the format coupon
// validity windows are stored and compared in.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// CouponDiscount computes the discount a coupon yields on a subtotal.
// Percentage discounts are capped at MaxDiscountAmount when set.
func CouponDiscount(coupon models.Coupon, subtotal float64) float64 {
	var discount float64
	if coupon.DiscountType == models.DiscountTypePercentage {
		discount = subtotal * coupon.DiscountValue / 100
	} else {
		discount = coupon.DiscountValue
	}
	if coupon.MaxDiscountAmount > 0 && discount > coupon.MaxDiscountAmount {
		discount = coupon.MaxDiscountAmount
	}
	return RoundMoney(discount)
}

// UserCouponUsage counts how many of a user's orders carry a coupon code.
// Cancelled and failed orders still count; the original usage stands until
// a product decision says otherwise.
func UserCouponUsage(db *gorm.DB, userID uint, code string) (int64, error) {
	var count int64
	err := db.Model(&models.Order{}).
		Where("user_id = ? AND coupon_code = ?", userID, code).
		Count(&count).Error
	if err != nil {
		return 0, InternalErr("Failed to count coupon usage", err)
	}
	return count, nil
}

// CheckCouponApplicable runs every apply-time gate: active, within window,
// minimum purchase met, global usage limit not exhausted, per-user limit
// not exhausted. Returns a typed invalid-coupon error naming the failed
// gate.
func CheckCouponApplicable(db *gorm.DB, coupon models.Coupon, userID uint, subtotal float64) error {
	if !coupon.IsActive {
		return InvalidCouponErr("Invalid or inactive coupon")
	}
	if !coupon.ValidOn(Today()) {
		return InvalidCouponErr("Coupon is expired or not yet valid")
	}
	if subtotal < coupon.MinPurchaseAmount {
		return InvalidCouponErr(fmt.Sprintf("Minimum purchase of ₹%.0f required to use this coupon", coupon.MinPurchaseAmount))
	}
	if coupon.UsageExhausted() {
		return InvalidCouponErr("This coupon has reached its usage limit")
	}
	used, err := UserCouponUsage(db, userID, coupon.Code)
	if err != nil {
		return err
	}
	if used >= int64(coupon.PerUserLimit) {
		return InvalidCouponErr("You have already used this coupon")
	}
	return nil
}

// ValidateCouponForCreate enforces the creation invariants: uppercase
// alphanumeric code, percentage value at most 90, max discount strictly
// below the minimum purchase amount, and a well-ordered window.
func ValidateCouponForCreate(coupon models.Coupon) error {
	if !ValidCouponCode(coupon.Code) {
		return ValidationErr("Coupon code must be 1-15 uppercase letters or digits", nil)
	}
	switch coupon.DiscountType {
	case models.DiscountTypePercentage:
		if coupon.DiscountValue <= 0 || coupon.DiscountValue > MaxCouponPercent {
			return ValidationErr("Percentage discount must be between 0 and 90", nil)
		}
	case models.DiscountTypeFixed:
		if coupon.DiscountValue <= 0 {
			return ValidationErr("Fixed discount must be positive", nil)
		}
	default:
		return ValidationErr("Discount type must be percentage or fixed", nil)
	}
	if coupon.MaxDiscountAmount >= coupon.MinPurchaseAmount {
		return ValidationErr("Maximum discount amount must be less than minimum purchase amount", nil)
	}
	if !validDate(coupon.ValidFrom) || !validDate(coupon.ValidUntil) {
		return ValidationErr("Validity dates must be YYYY-MM-DD", nil)
	}
	if coupon.ValidFrom > coupon.ValidUntil {
		return ValidationErr("Valid-from date must not be after valid-until date", nil)
	}
	if coupon.PerUserLimit < 1 {
		return ValidationErr("Per-user limit must be at least 1", nil)
	}
	if coupon.UsageLimit != nil && *coupon.UsageLimit < 1 {
		return ValidationErr("Usage limit must be at least 1 when set", nil)
	}
	return nil
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
