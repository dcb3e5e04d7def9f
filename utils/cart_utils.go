package utils

import (
	"github.com/chronocraft/chronocraft/models"
	"gorm.io/gorm"
)

// CartLine is one cart row priced for checkout. UnitPrice is the effective
// price at snapshot time, not the price captured when the row was added.
type CartLine struct {
	Item      models.CartItem `json:"item"`
	Variant   models.Variant  `json:"variant"`
	UnitPrice float64         `json:"unit_price"`
	Subtotal  float64         `json:"subtotal"`
	Offer     OfferBreakdown  `json:"offer"`
}

// CartSnapshot is a fully priced view of a user's cart: every line repriced
// against current offers, the applied coupon re-evaluated, and order totals
// derived. Checkout and the summary endpoint both read from it so the two
// can never disagree.
type CartSnapshot struct {
	Lines          []CartLine     `json:"lines"`
	Subtotal       float64        `json:"subtotal"`
	CouponCode     string         `json:"coupon_code,omitempty"`
	CouponDiscount float64        `json:"coupon_discount"`
	Pricing        models.Pricing `json:"pricing"`
}

// BuildCartSnapshot loads and prices a user's cart. Lines whose product is
// blocked, unlisted or missing its variant fail the snapshot with a
// validation error naming the product, so stale carts surface before money
// moves.
func BuildCartSnapshot(db *gorm.DB, userID uint) (*CartSnapshot, error) {
	var items []models.CartItem
	if err := db.Preload("Product").Preload("Product.Variants").Preload("Product.Category").
		Where("user_id = ?", userID).Order("created_at").Find(&items).Error; err != nil {
		return nil, InternalErr("Failed to load cart", err)
	}
	if len(items) == 0 {
		return nil, ValidationErr(ErrCartEmpty, nil)
	}

	snapshot := &CartSnapshot{}
	for _, item := range items {
		if item.Product.IsBlocked || !item.Product.Category.IsListed {
			return nil, ValidationErr("\""+item.Product.Name+"\" is no longer available. Please remove it from your cart.", nil)
		}
		variant, ok := item.Product.FindVariant(item.VariantID)
		if !ok || variant.Discontinued {
			return nil, ValidationErr("A variant of \""+item.Product.Name+"\" is no longer available. Please remove it from your cart.", nil)
		}

		offer := GetOfferBreakdown(db, item.ProductID, item.Product.CategoryID)
		unitPrice := EffectiveUnitPrice(*variant, offer.AppliedOfferPercent)
		line := CartLine{
			Item:      item,
			Variant:   *variant,
			UnitPrice: unitPrice,
			Subtotal:  RoundMoney(unitPrice * float64(item.Quantity)),
			Offer:     offer,
		}
		snapshot.Lines = append(snapshot.Lines, line)
		snapshot.Subtotal = RoundMoney(snapshot.Subtotal + line.Subtotal)
	}

	// Re-evaluate the applied coupon against the repriced subtotal. A cart
	// that shrank below the minimum purchase silently loses the coupon.
	var cartCoupon models.CartCoupon
	if err := db.Where("user_id = ?", userID).First(&cartCoupon).Error; err == nil {
		var coupon models.Coupon
		if err := db.Where("code = ?", cartCoupon.Code).First(&coupon).Error; err == nil {
			if coupon.IsActive && coupon.ValidOn(Today()) && snapshot.Subtotal >= coupon.MinPurchaseAmount {
				snapshot.CouponCode = coupon.Code
				snapshot.CouponDiscount = CouponDiscount(coupon, snapshot.Subtotal)
			}
		}
	}

	snapshot.Pricing = OrderTotals(snapshot.Subtotal, snapshot.CouponDiscount)
	return snapshot, nil
}

// ClearCart removes a user's cart rows and any applied coupon. Called after
// an order is placed; runs inside the placement transaction.
func ClearCart(tx *gorm.DB, userID uint) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return InternalErr("Failed to clear cart", err)
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartCoupon{}).Error; err != nil {
		return InternalErr("Failed to clear cart coupon", err)
	}
	return nil
}
