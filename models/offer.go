package models

import (
	"time"
)

// Offer scope constants
const (
	OfferTypeProduct  = "product"
	OfferTypeCategory = "category"
)

// Offer is a time-bounded percentage discount scoped to a product or a
// category. At most one active offer may exist per (type, target) pair;
// the admin controller enforces this, not the schema.
type Offer struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `json:"name"`
	Type            string    `gorm:"index:idx_offers_type_target" json:"type"`
	TargetID        uint      `gorm:"index:idx_offers_type_target" json:"target_id"`
	DiscountPercent float64   `json:"discount_percent"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LiveAt reports whether the offer applies at the given instant.
func (o Offer) LiveAt(t time.Time) bool {
	return o.IsActive && !o.StartDate.After(t) && !o.EndDate.Before(t)
}
