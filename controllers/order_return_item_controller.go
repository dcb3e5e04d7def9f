package controllers

import (
	"strconv"
	"time"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// ReturnOrderItem requests a return of a single delivered line. The line's
// stock returns immediately; a Pending refund for the line's prorated share
// waits for admin review.
func ReturnOrderItem(c *gin.Context) {
	utils.LogInfo("ReturnOrderItem called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order item ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Missing return reason for item %d: %v", itemID, err)
		utils.BadRequest(c, utils.ErrReasonRequired, nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		utils.LogError("Order %d not found for user %d", orderID, user.ID)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	if order.Status != models.OrderStatusDelivered {
		utils.LogError("Item return requested in status %s for order %d", order.Status, orderID)
		utils.BadRequest(c, "Items can only be returned after delivery", nil)
		return
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == uint(itemID) {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		utils.NotFound(c, utils.ErrItemNotFound)
		return
	}
	if item.Status == models.ItemStatusCancelled {
		utils.BadRequest(c, "Cancelled items cannot be returned", nil)
		return
	}
	if item.Return.Requested {
		utils.BadRequest(c, "Return already requested for this item", nil)
		return
	}

	refundAmount := 0.0
	if order.Payment.Status == models.PaymentStatusCompleted {
		refundAmount = utils.ItemRefund(*item, order.Pricing.Subtotal, order.Pricing.Tax, order.CouponDiscount)
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to request return", nil)
		return
	}

	// Claim the Delivered -> Return Requested transition up front; a
	// concurrent request aborts here before any restock or refund.
	if err := utils.ClaimOrderStatus(tx, order.ID, models.OrderStatusDelivered,
		models.OrderStatusReturnRequested); err != nil {
		utils.LogError("Item return lost a concurrent update on order %d: %v", orderID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	// The flag flip re-checks that no return is recorded on the line yet.
	result := tx.Model(&models.OrderItem{}).
		Where("id = ? AND return_requested = ?", item.ID, false).
		Updates(map[string]interface{}{
			"return_requested":    true,
			"return_status":       models.ReturnStatusPending,
			"return_reason":       req.Reason,
			"return_request_date": time.Now(),
		})
	if result.Error != nil {
		utils.LogError("Failed to mark item %d for return: %v", itemID, result.Error)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to request return", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.LogError("Item %d return already requested by another request", itemID)
		tx.Rollback()
		utils.RespondError(c, utils.ConflictErr("Return already requested for this item"))
		return
	}

	if err := utils.ReleaseStock(tx, item.VariantID, item.Quantity); err != nil {
		utils.LogError("Failed to restore stock for variant %s: %v", item.VariantID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	if refundAmount > 0 {
		wallet, err := utils.GetOrCreateWallet(tx, user.ID)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		if _, err := utils.CreditWallet(tx, wallet.ID, refundAmount,
			models.TransactionTypeRefund, &order.ID, models.TransactionStatusPending,
			"Refund pending for returned item in order "+order.OrderNumber); err != nil {
			utils.LogError("Failed to record pending refund for item %d: %v", itemID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit item return request: %v", err)
		utils.InternalServerError(c, "Failed to request return", nil)
		return
	}

	utils.LogInfo("Return requested for item %d on order %s", itemID, order.OrderNumber)
	utils.Success(c, "Return requested. Refund will be credited after review.", gin.H{
		"order_number":  order.OrderNumber,
		"status":        models.OrderStatusReturnRequested,
		"refund_amount": refundAmount,
	})
}
