package utils

import (
	"fmt"
	"time"

	"github.com/chronocraft/chronocraft/models"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// offerCache keeps active offer lookups off the hot path; every cart view
// and pricing pass hits them.
var offerCache = gocache.New(OfferCacheTTLSeconds*time.Second, 5*time.Minute)

// OfferBreakdown holds the product and category offers considered for a
// product and the one actually applied.
type OfferBreakdown struct {
	ProductOfferPercent  float64 `json:"product_offer_percent"`
	CategoryOfferPercent float64 `json:"category_offer_percent"`
	AppliedOfferPercent  float64 `json:"applied_offer_percent"`
	AppliedOfferType     string  `json:"applied_offer_type"` // "product", "category", or "none"
}

// GetOfferBreakdown returns the active product offer, category offer and
// the applied (best-of) discount for a product. Offers never stack: the
// applied discount is the larger of the two.
func GetOfferBreakdown(db *gorm.DB, productID, categoryID uint) OfferBreakdown {
	key := fmt.Sprintf("%d:%d", productID, categoryID)
	if cached, found := offerCache.Get(key); found {
		return cached.(OfferBreakdown)
	}

	now := time.Now()
	breakdown := OfferBreakdown{AppliedOfferType: "none"}

	var prodOffer models.Offer
	if err := db.Where("type = ? AND target_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
		models.OfferTypeProduct, productID, true, now, now).First(&prodOffer).Error; err == nil {
		breakdown.ProductOfferPercent = prodOffer.DiscountPercent
	}
	var catOffer models.Offer
	if err := db.Where("type = ? AND target_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
		models.OfferTypeCategory, categoryID, true, now, now).First(&catOffer).Error; err == nil {
		breakdown.CategoryOfferPercent = catOffer.DiscountPercent
	}

	if breakdown.ProductOfferPercent >= breakdown.CategoryOfferPercent && breakdown.ProductOfferPercent > 0 {
		breakdown.AppliedOfferPercent = breakdown.ProductOfferPercent
		breakdown.AppliedOfferType = "product"
	} else if breakdown.CategoryOfferPercent > 0 {
		breakdown.AppliedOfferPercent = breakdown.CategoryOfferPercent
		breakdown.AppliedOfferType = "category"
	}

	offerCache.Set(key, breakdown, gocache.DefaultExpiration)
	return breakdown
}

// InvalidateOfferCache drops all cached offer lookups. Called when an admin
// creates or deactivates an offer.
func InvalidateOfferCache() {
	offerCache.Flush()
}

// BestOfferPercent picks the applied discount from a breakdown.
func BestOfferPercent(b OfferBreakdown) float64 {
	return b.AppliedOfferPercent
}
