package controllers

import (
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// CancelOrder cancels an entire order. Customers may only cancel while the
// order is still Processing. Stock returns for every line not already
// cancelled; a completed payment is refunded to the wallet in full,
// shipping fee included.
func CancelOrder(c *gin.Context) {
	utils.LogInfo("CancelOrder called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.LogError("Invalid order ID format: %v", err)
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Missing cancellation reason for order %d: %v", orderID, err)
		utils.BadRequest(c, utils.ErrReasonRequired, nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").Where("id = ? AND user_id = ?", orderID, user.ID).
		First(&order).Error; err != nil {
		utils.LogError("Order %d not found for user %d: %v", orderID, user.ID, err)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	if err := utils.ValidateOrderCancellable(order); err != nil {
		utils.LogError("Order %d cannot be cancelled in status %s", orderID, order.Status)
		utils.RespondError(c, err)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction for order %d: %v", orderID, tx.Error)
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}

	// Re-check the Processing precondition in the same UPDATE so two
	// concurrent cancellations cannot both restock and refund.
	if err := utils.ClaimOrderStatus(tx, order.ID, models.OrderStatusProcessing,
		models.OrderStatusCancelled); err != nil {
		utils.LogError("Cancellation lost a concurrent update on order %d: %v", orderID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	for _, item := range order.Items {
		if item.Status == models.ItemStatusCancelled {
			continue
		}
		if err := utils.ReleaseStock(tx, item.VariantID, item.Quantity); err != nil {
			utils.LogError("Failed to restore stock for variant %s, order %d: %v", item.VariantID, orderID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND status <> ?", order.ID, models.ItemStatusCancelled).
		Update("status", models.ItemStatusCancelled).Error; err != nil {
		utils.LogError("Failed to cancel order items for order %d: %v", orderID, err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}

	paymentStatus := models.PaymentStatusOrderCancelled
	refundAmount := 0.0

	// Money already captured goes back to the wallet immediately.
	if order.Payment.Status == models.PaymentStatusCompleted {
		wallet, err := utils.GetOrCreateWallet(tx, user.ID)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		refundAmount = order.Pricing.FinalAmount
		if _, err := utils.CreditWallet(tx, wallet.ID, refundAmount,
			models.TransactionTypeRefund, &order.ID, models.TransactionStatusCompleted,
			"Refund for cancelled order "+order.OrderNumber); err != nil {
			utils.LogError("Failed to refund order %d: %v", orderID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		paymentStatus = models.PaymentStatusRefunded
	}

	if err := tx.Model(&order).Updates(map[string]interface{}{
		"cancel_reason":  req.Reason,
		"payment_status": paymentStatus,
	}).Error; err != nil {
		utils.LogError("Failed to update order %d status: %v", orderID, err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit cancellation for order %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to cancel order", nil)
		return
	}

	utils.LogInfo("Order %s cancelled by user %d, refund %.2f", order.OrderNumber, user.ID, refundAmount)
	utils.Success(c, "Order cancelled successfully", gin.H{
		"order_number":   order.OrderNumber,
		"status":         models.OrderStatusCancelled,
		"payment_status": paymentStatus,
		"refund_amount":  refundAmount,
	})
}
