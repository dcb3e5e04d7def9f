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

// ReturnOrder requests a return of a delivered order. Stock returns to the
// shelf immediately; the refund is recorded as a Pending wallet transaction
// that only reaches the balance when an admin approves the return.
func ReturnOrder(c *gin.Context) {
	utils.LogInfo("ReturnOrder called")
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

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Missing return reason for order %d: %v", orderID, err)
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
		utils.LogError("Return requested in status %s for order %d", order.Status, orderID)
		utils.RespondError(c, utils.InvalidTransitionErr(order.Status, models.OrderStatusReturnRequested,
			models.AllowedTransitions(order.Status)))
		return
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
		utils.LogError("Return request lost a concurrent update on order %d: %v", orderID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	now := time.Now()
	for _, item := range order.Items {
		if item.Status == models.ItemStatusCancelled {
			continue
		}
		if err := utils.ReleaseStock(tx, item.VariantID, item.Quantity); err != nil {
			utils.LogError("Failed to restore stock for variant %s: %v", item.VariantID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		if err := tx.Model(&models.OrderItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"return_requested":    true,
			"return_status":       models.ReturnStatusPending,
			"return_reason":       req.Reason,
			"return_request_date": now,
		}).Error; err != nil {
			utils.LogError("Failed to mark item %d for return: %v", item.ID, err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to request return", nil)
			return
		}
	}

	// The refund waits in the ledger as Pending until review.
	if order.Payment.Status == models.PaymentStatusCompleted {
		wallet, err := utils.GetOrCreateWallet(tx, user.ID)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		if _, err := utils.CreditWallet(tx, wallet.ID, order.Pricing.FinalAmount,
			models.TransactionTypeRefund, &order.ID, models.TransactionStatusPending,
			"Refund pending for returned order "+order.OrderNumber); err != nil {
			utils.LogError("Failed to record pending refund for order %d: %v", orderID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit return request: %v", err)
		utils.InternalServerError(c, "Failed to request return", nil)
		return
	}

	utils.LogInfo("Return requested for order %s by user %d", order.OrderNumber, user.ID)
	utils.Success(c, "Return requested. Refund will be credited after review.", gin.H{
		"order_number": order.OrderNumber,
		"status":       models.OrderStatusReturnRequested,
	})
}
