package controllers

import (
	"strings"
	"time"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// GetAvailableCoupons lists coupons the user could apply to the current
// cart. The listing checks activity, the validity window, the minimum
// purchase and the per-user limit; the global usage limit is only enforced
// at apply time.
func GetAvailableCoupons(c *gin.Context) {
	utils.LogInfo("GetAvailableCoupons called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	snapshot, err := utils.BuildCartSnapshot(config.DB, user.ID)
	subtotal := 0.0
	if err == nil {
		subtotal = snapshot.Subtotal
	}

	today := utils.Today()
	var coupons []models.Coupon
	if err := config.DB.Where("is_active = ? AND valid_from <= ? AND valid_until >= ?",
		true, today, today).Find(&coupons).Error; err != nil {
		utils.LogError("Failed to load coupons: %v", err)
		utils.InternalServerError(c, "Failed to load coupons", nil)
		return
	}

	type couponView struct {
		models.Coupon
		Eligible          bool    `json:"eligible"`
		EstimatedDiscount float64 `json:"estimated_discount"`
	}

	views := make([]couponView, 0, len(coupons))
	for _, coupon := range coupons {
		used, err := utils.UserCouponUsage(config.DB, user.ID, coupon.Code)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		eligible := subtotal >= coupon.MinPurchaseAmount && used < int64(coupon.PerUserLimit)
		view := couponView{Coupon: coupon, Eligible: eligible}
		if eligible {
			view.EstimatedDiscount = utils.CouponDiscount(coupon, subtotal)
		}
		views = append(views, view)
	}

	utils.LogInfo("Listed %d coupons for user %d", len(views), user.ID)
	utils.Success(c, "Coupons retrieved", gin.H{"coupons": views, "cart_subtotal": subtotal})
}

// ApplyCoupon applies a coupon code to the user's cart
func ApplyCoupon(c *gin.Context) {
	utils.LogInfo("ApplyCoupon called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Coupon code is required", nil)
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	snapshot, err := utils.BuildCartSnapshot(config.DB, user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var coupon models.Coupon
	if err := config.DB.Where("code = ?", code).First(&coupon).Error; err != nil {
		utils.LogError("Unknown coupon code applied: %s", code)
		utils.RespondError(c, utils.InvalidCouponErr("Invalid or inactive coupon"))
		return
	}

	if err := utils.CheckCouponApplicable(config.DB, coupon, user.ID, snapshot.Subtotal); err != nil {
		utils.LogError("Coupon %s not applicable for user %d: %v", code, user.ID, err)
		utils.RespondError(c, err)
		return
	}

	discount := utils.CouponDiscount(coupon, snapshot.Subtotal)
	cartCoupon := models.CartCoupon{
		UserID:    user.ID,
		Code:      coupon.Code,
		Discount:  discount,
		AppliedAt: time.Now(),
	}

	// One coupon per cart; applying replaces any previous one.
	if err := config.DB.Where("user_id = ?", user.ID).Delete(&models.CartCoupon{}).Error; err != nil {
		utils.LogError("Failed to clear previous cart coupon: %v", err)
		utils.InternalServerError(c, "Failed to apply coupon", nil)
		return
	}
	if err := config.DB.Create(&cartCoupon).Error; err != nil {
		utils.LogError("Failed to apply coupon: %v", err)
		utils.InternalServerError(c, "Failed to apply coupon", nil)
		return
	}

	pricing := utils.OrderTotals(snapshot.Subtotal, discount)
	utils.LogInfo("User %d applied coupon %s for discount %.2f", user.ID, code, discount)
	utils.Success(c, "Coupon applied", gin.H{
		"coupon":   cartCoupon,
		"discount": discount,
		"pricing":  pricing,
	})
}

// RemoveCoupon removes the applied coupon from the user's cart
func RemoveCoupon(c *gin.Context) {
	utils.LogInfo("RemoveCoupon called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	result := config.DB.Where("user_id = ?", user.ID).Delete(&models.CartCoupon{})
	if result.Error != nil {
		utils.LogError("Failed to remove coupon: %v", result.Error)
		utils.InternalServerError(c, "Failed to remove coupon", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "No coupon applied to cart")
		return
	}

	utils.Success(c, "Coupon removed", nil)
}
