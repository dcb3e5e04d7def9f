package controllers

import (
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// variantView is a variant decorated with its derived status and effective
// price after offers.
type variantView struct {
	models.Variant
	Status         string  `json:"status"`
	EffectivePrice float64 `json:"effective_price"`
}

func buildVariantViews(product models.Product, offer utils.OfferBreakdown) []variantView {
	views := make([]variantView, 0, len(product.Variants))
	for _, v := range product.Variants {
		views = append(views, variantView{
			Variant:        v,
			Status:         v.DerivedStatus(),
			EffectivePrice: utils.EffectiveUnitPrice(v, offer.AppliedOfferPercent),
		})
	}
	return views
}

// ListProducts returns the storefront catalog. Blocked products and products
// in unlisted categories are hidden.
func ListProducts(c *gin.Context) {
	utils.LogInfo("ListProducts called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.is_blocked = ? AND categories.is_listed = ?", false, true)

	if search := c.Query("search"); search != "" {
		query = query.Where("products.name ILIKE ?", "%"+search+"%")
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("products.category_id = ?", categoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count products: %v", err)
		utils.InternalServerError(c, "Failed to load products", nil)
		return
	}
	pagination.SetTotal(total)

	var products []models.Product
	if err := query.Preload("Variants").Preload("Category").Preload("Brand").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Order("products.created_at DESC").
		Find(&products).Error; err != nil {
		utils.LogError("Failed to load products: %v", err)
		utils.InternalServerError(c, "Failed to load products", nil)
		return
	}

	type productView struct {
		models.Product
		Variants []variantView       `json:"variants"`
		Offer    utils.OfferBreakdown `json:"offer"`
	}
	views := make([]productView, 0, len(products))
	for _, p := range products {
		offer := utils.GetOfferBreakdown(config.DB, p.ID, p.CategoryID)
		views = append(views, productView{Product: p, Variants: buildVariantViews(p, offer), Offer: offer})
	}

	utils.LogInfo("Listed %d products", len(views))
	utils.SendPaginatedResponse(c, views, pagination)
}

// GetProductDetails returns one product with variant statuses, offer
// breakdown and effective prices.
func GetProductDetails(c *gin.Context) {
	utils.LogInfo("GetProductDetails called")

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.LogError("Invalid product ID format: %v", err)
		utils.BadRequest(c, "Invalid product ID", nil)
		return
	}

	var product models.Product
	if err := config.DB.Preload("Variants").Preload("Category").Preload("Brand").
		First(&product, uint(productID)).Error; err != nil {
		utils.LogError("Product not found: %d", productID)
		utils.NotFound(c, "Product not found")
		return
	}

	if product.IsBlocked || !product.Category.IsListed {
		utils.LogError("Blocked or unlisted product requested: %d", productID)
		utils.NotFound(c, "Product not found")
		return
	}

	offer := utils.GetOfferBreakdown(config.DB, product.ID, product.CategoryID)
	utils.Success(c, "Product details retrieved", gin.H{
		"product":  product,
		"variants": buildVariantViews(product, offer),
		"offer":    offer,
	})
}
