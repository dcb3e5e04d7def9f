package controllers

import (
	"strconv"
	"strings"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateCouponRequest represents the coupon creation request body
type CreateCouponRequest struct {
	Code              string  `json:"code" binding:"required"`
	Description       string  `json:"description"`
	DiscountType      string  `json:"discount_type" binding:"required"`
	DiscountValue     float64 `json:"discount_value" binding:"required"`
	MinPurchaseAmount float64 `json:"min_purchase_amount"`
	MaxDiscountAmount float64 `json:"max_discount_amount"`
	ValidFrom         string  `json:"valid_from" binding:"required"`
	ValidUntil        string  `json:"valid_until" binding:"required"`
	UsageLimit        *int    `json:"usage_limit"`
	PerUserLimit      int     `json:"per_user_limit"`
}

// CreateCoupon creates a coupon
func CreateCoupon(c *gin.Context) {
	utils.LogInfo("CreateCoupon called")

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon creation request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if req.PerUserLimit == 0 {
		req.PerUserLimit = 1
	}

	coupon := models.Coupon{
		Code:              strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MinPurchaseAmount: req.MinPurchaseAmount,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		UsageLimit:        req.UsageLimit,
		PerUserLimit:      req.PerUserLimit,
		IsActive:          true,
	}

	if err := utils.ValidateCouponForCreate(coupon); err != nil {
		utils.LogError("Coupon validation failed: %v", err)
		utils.RespondError(c, err)
		return
	}

	var existing models.Coupon
	if err := config.DB.Where("code = ?", coupon.Code).First(&existing).Error; err == nil {
		utils.LogError("Duplicate coupon code: %s", coupon.Code)
		utils.Conflict(c, "A coupon with this code already exists", nil)
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.LogError("Failed to check coupon code: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}

	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}

	utils.LogInfo("Coupon %s created", coupon.Code)
	utils.Created(c, "Coupon created successfully", coupon)
}

// ListCoupons lists all coupons for the admin panel
func ListCoupons(c *gin.Context) {
	utils.LogInfo("ListCoupons called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Coupon{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count coupons: %v", err)
		utils.InternalServerError(c, "Failed to load coupons", nil)
		return
	}
	pagination.SetTotal(total)

	var coupons []models.Coupon
	if err := query.Offset(pagination.Offset).Limit(pagination.Limit).
		Order("created_at DESC").Find(&coupons).Error; err != nil {
		utils.LogError("Failed to load coupons: %v", err)
		utils.InternalServerError(c, "Failed to load coupons", nil)
		return
	}

	utils.SendPaginatedResponse(c, coupons, pagination)
}

// UpdateCoupon toggles a coupon's active flag or updates its window
func UpdateCoupon(c *gin.Context) {
	utils.LogInfo("UpdateCoupon called")

	couponID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, uint(couponID)).Error; err != nil {
		utils.NotFound(c, "Coupon not found")
		return
	}

	var req struct {
		IsActive   *bool   `json:"is_active"`
		ValidUntil *string `json:"valid_until"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if req.ValidUntil != nil {
		coupon.ValidUntil = *req.ValidUntil
		if err := utils.ValidateCouponForCreate(coupon); err != nil {
			utils.RespondError(c, err)
			return
		}
	}

	if err := config.DB.Save(&coupon).Error; err != nil {
		utils.LogError("Failed to update coupon %d: %v", couponID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}

	utils.Success(c, "Coupon updated", coupon)
}

// DeleteCoupon soft-deletes a coupon. Orders that already used it keep
// their stored discount.
func DeleteCoupon(c *gin.Context) {
	utils.LogInfo("DeleteCoupon called")

	couponID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	result := config.DB.Delete(&models.Coupon{}, uint(couponID))
	if result.Error != nil {
		utils.LogError("Failed to delete coupon %d: %v", couponID, result.Error)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Coupon not found")
		return
	}

	utils.LogInfo("Coupon %d deleted", couponID)
	utils.Success(c, "Coupon deleted", nil)
}
