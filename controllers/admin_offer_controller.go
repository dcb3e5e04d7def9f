package controllers

import (
	"strconv"
	"time"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// CreateOfferRequest represents the offer creation request body
type CreateOfferRequest struct {
	Name            string    `json:"name" binding:"required"`
	Type            string    `json:"type" binding:"required"`
	TargetID        uint      `json:"target_id" binding:"required"`
	DiscountPercent float64   `json:"discount_percent" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
}

// CreateOffer creates a product or category offer. Only one active offer
// may exist per target; creating a new one deactivates the previous one.
func CreateOffer(c *gin.Context) {
	utils.LogInfo("CreateOffer called")

	var req CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid offer creation request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if req.Type != models.OfferTypeProduct && req.Type != models.OfferTypeCategory {
		utils.BadRequest(c, "Offer type must be product or category", nil)
		return
	}
	if req.DiscountPercent <= 0 || req.DiscountPercent > utils.MaxCouponPercent {
		utils.BadRequest(c, "Discount percent must be between 0 and 90", nil)
		return
	}
	if req.EndDate.Before(req.StartDate) {
		utils.BadRequest(c, "End date must not be before start date", nil)
		return
	}

	// Verify the target exists.
	if req.Type == models.OfferTypeProduct {
		var product models.Product
		if err := config.DB.First(&product, req.TargetID).Error; err != nil {
			utils.NotFound(c, "Product not found")
			return
		}
	} else {
		var category models.Category
		if err := config.DB.First(&category, req.TargetID).Error; err != nil {
			utils.NotFound(c, "Category not found")
			return
		}
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to create offer", nil)
		return
	}

	if err := tx.Model(&models.Offer{}).
		Where("type = ? AND target_id = ? AND is_active = ?", req.Type, req.TargetID, true).
		Update("is_active", false).Error; err != nil {
		utils.LogError("Failed to deactivate existing offers: %v", err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to create offer", nil)
		return
	}

	offer := models.Offer{
		Name:            req.Name,
		Type:            req.Type,
		TargetID:        req.TargetID,
		DiscountPercent: req.DiscountPercent,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IsActive:        true,
	}
	if err := tx.Create(&offer).Error; err != nil {
		utils.LogError("Failed to create offer: %v", err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to create offer", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit offer creation: %v", err)
		utils.InternalServerError(c, "Failed to create offer", nil)
		return
	}

	utils.InvalidateOfferCache()
	utils.LogInfo("Offer %d created for %s %d", offer.ID, offer.Type, offer.TargetID)
	utils.Created(c, "Offer created successfully", offer)
}

// ListOffers lists all offers for the admin panel
func ListOffers(c *gin.Context) {
	utils.LogInfo("ListOffers called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Offer{})

	if offerType := c.Query("type"); offerType != "" {
		query = query.Where("type = ?", offerType)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count offers: %v", err)
		utils.InternalServerError(c, "Failed to load offers", nil)
		return
	}
	pagination.SetTotal(total)

	var offers []models.Offer
	if err := query.Offset(pagination.Offset).Limit(pagination.Limit).
		Order("created_at DESC").Find(&offers).Error; err != nil {
		utils.LogError("Failed to load offers: %v", err)
		utils.InternalServerError(c, "Failed to load offers", nil)
		return
	}

	utils.SendPaginatedResponse(c, offers, pagination)
}

// DeactivateOffer turns an offer off. Prices snap back to the manual sale
// price on the next catalog read.
func DeactivateOffer(c *gin.Context) {
	utils.LogInfo("DeactivateOffer called")

	offerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid offer ID", nil)
		return
	}

	result := config.DB.Model(&models.Offer{}).
		Where("id = ? AND is_active = ?", uint(offerID), true).
		Update("is_active", false)
	if result.Error != nil {
		utils.LogError("Failed to deactivate offer %d: %v", offerID, result.Error)
		utils.InternalServerError(c, "Failed to deactivate offer", nil)
		return
	}
	if result.RowsAffected == 0 {
		var offer models.Offer
		if err := config.DB.First(&offer, uint(offerID)).Error; err != nil {
			utils.NotFound(c, "Offer not found")
			return
		}
		utils.BadRequest(c, "Offer is already inactive", nil)
		return
	}

	utils.InvalidateOfferCache()
	utils.LogInfo("Offer %d deactivated", offerID)
	utils.Success(c, "Offer deactivated", nil)
}
