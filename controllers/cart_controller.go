package controllers

import (
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AddToCartRequest represents the add-to-cart request body
type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// AddToCart adds a variant to the user's cart or bumps its quantity
func AddToCart(c *gin.Context) {
	utils.LogInfo("AddToCart called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid add-to-cart request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if err := utils.ValidateQuantity(req.Quantity); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	var product models.Product
	if err := config.DB.Preload("Variants").Preload("Category").
		First(&product, req.ProductID).Error; err != nil {
		utils.LogError("Product not found: %d", req.ProductID)
		utils.NotFound(c, "Product not found")
		return
	}
	if product.IsBlocked || !product.Category.IsListed {
		utils.NotFound(c, "Product not found")
		return
	}

	variant, ok := product.FindVariant(req.VariantID)
	if !ok {
		utils.LogError("Variant %s not found on product %d", req.VariantID, req.ProductID)
		utils.NotFound(c, "Product variant not found")
		return
	}
	if variant.Discontinued {
		utils.BadRequest(c, "This variant has been discontinued", nil)
		return
	}

	offer := utils.GetOfferBreakdown(config.DB, product.ID, product.CategoryID)
	unitPrice := utils.EffectiveUnitPrice(*variant, offer.AppliedOfferPercent)

	var item models.CartItem
	err := config.DB.Where("user_id = ? AND variant_id = ?", user.ID, req.VariantID).First(&item).Error
	if err == nil {
		newQuantity := item.Quantity + req.Quantity
		if newQuantity > variant.Stock {
			utils.LogError("Requested quantity %d exceeds stock %d for variant %s", newQuantity, variant.Stock, variant.ID)
			utils.BadRequest(c, "Requested quantity exceeds available stock", gin.H{"available": variant.Stock})
			return
		}
		item.Quantity = newQuantity
		item.SalePrice = unitPrice
		if err := config.DB.Save(&item).Error; err != nil {
			utils.LogError("Failed to update cart item: %v", err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	} else if err == gorm.ErrRecordNotFound {
		if req.Quantity > variant.Stock {
			utils.BadRequest(c, "Requested quantity exceeds available stock", gin.H{"available": variant.Stock})
			return
		}
		item = models.CartItem{
			UserID:    user.ID,
			ProductID: req.ProductID,
			VariantID: req.VariantID,
			Quantity:  req.Quantity,
			SalePrice: unitPrice,
		}
		if err := config.DB.Create(&item).Error; err != nil {
			utils.LogError("Failed to add cart item: %v", err)
			utils.InternalServerError(c, "Failed to update cart", nil)
			return
		}
	} else {
		utils.LogError("Failed to load cart item: %v", err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.LogInfo("User %d added variant %s x%d to cart", user.ID, req.VariantID, req.Quantity)
	utils.Success(c, "Item added to cart", item)
}

// UpdateCartItem changes the quantity of a cart line
func UpdateCartItem(c *gin.Context) {
	utils.LogInfo("UpdateCartItem called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if err := utils.ValidateQuantity(req.Quantity); err != nil {
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	var item models.CartItem
	if err := config.DB.Preload("Product").Preload("Product.Variants").
		Where("id = ? AND user_id = ?", itemID, user.ID).First(&item).Error; err != nil {
		utils.NotFound(c, "Cart item not found")
		return
	}

	variant, ok := item.Product.FindVariant(item.VariantID)
	if !ok {
		utils.NotFound(c, "Product variant not found")
		return
	}
	if req.Quantity > variant.Stock {
		utils.BadRequest(c, "Requested quantity exceeds available stock", gin.H{"available": variant.Stock})
		return
	}

	item.Quantity = req.Quantity
	if err := config.DB.Save(&item).Error; err != nil {
		utils.LogError("Failed to update cart item %d: %v", itemID, err)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}

	utils.Success(c, "Cart updated", item)
}

// RemoveCartItem deletes a cart line
func RemoveCartItem(c *gin.Context) {
	utils.LogInfo("RemoveCartItem called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid cart item ID", nil)
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", itemID, user.ID).Delete(&models.CartItem{})
	if result.Error != nil {
		utils.LogError("Failed to remove cart item %d: %v", itemID, result.Error)
		utils.InternalServerError(c, "Failed to update cart", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Cart item not found")
		return
	}

	utils.Success(c, "Item removed from cart", nil)
}

// GetCart returns the user's cart priced against current offers and the
// applied coupon
func GetCart(c *gin.Context) {
	utils.LogInfo("GetCart called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	snapshot, err := utils.BuildCartSnapshot(config.DB, user.ID)
	if err != nil {
		if appErr := utils.GetAppError(err); appErr != nil && appErr.Message == utils.ErrCartEmpty {
			utils.Success(c, "Your cart is empty", gin.H{"lines": []interface{}{}, "subtotal": 0})
			return
		}
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Cart retrieved", snapshot)
}
