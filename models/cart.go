package models

import (
	"time"
)

// CartItem is one row of a user's cart. SalePrice is the effective unit
// price captured when the item was added; checkout recomputes it before an
// order is placed.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_cart_user_variant,unique" json:"user_id"`
	ProductID uint      `json:"product_id"`
	Product   Product   `json:"product" gorm:"foreignKey:ProductID"`
	VariantID string    `gorm:"type:uuid;index:idx_cart_user_variant,unique" json:"variant_id"`
	Quantity  int       `json:"quantity"`
	SalePrice float64   `json:"sale_price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartCoupon tracks the coupon currently applied to a user's cart. One per
// user; the stored discount is provisional until order placement.
type CartCoupon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex" json:"user_id"`
	Code      string    `json:"code"`
	Discount  float64   `json:"discount"`
	AppliedAt time.Time `json:"applied_at"`
}
