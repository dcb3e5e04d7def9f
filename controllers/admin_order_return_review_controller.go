package controllers

import (
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// VerifyReturnRequest resolves a pending return. Approving completes the
// Pending refund transaction, credits the wallet and marks the order
// Returned. Rejecting discards the Pending refund and puts the order back
// to Delivered; the stock released at request time is reserved again.
func VerifyReturnRequest(c *gin.Context) {
	utils.LogInfo("VerifyReturnRequest called")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Approve bool   `json:"approve"`
		Note    string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid return review request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").First(&order, uint(orderID)).Error; err != nil {
		utils.LogError("Order %d not found", orderID)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	if order.Status != models.OrderStatusReturnRequested {
		utils.LogError("Return review in status %s for order %d", order.Status, orderID)
		utils.BadRequest(c, "No pending return request on this order", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to review return", nil)
		return
	}

	// Claim the review transition first; a second concurrent review of the
	// same request aborts before touching stock or the wallet.
	target := models.OrderStatusDelivered
	if req.Approve {
		target = models.OrderStatusReturned
	}
	if err := utils.ClaimOrderStatus(tx, order.ID, models.OrderStatusReturnRequested, target); err != nil {
		utils.LogError("Return review lost a concurrent update on order %d: %v", orderID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	wallet, err := utils.GetOrCreateWallet(tx, order.UserID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	if req.Approve {
		refundedAmount := 0.0
		if order.Payment.Status == models.PaymentStatusCompleted {
			transaction, err := utils.CompletePendingRefund(tx, wallet.ID, order.ID)
			if err != nil {
				utils.LogError("Failed to complete pending refund for order %d: %v", orderID, err)
				tx.Rollback()
				utils.RespondError(c, err)
				return
			}
			refundedAmount = transaction.Amount
		}

		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND return_requested = ?", order.ID, true).
			Update("return_status", models.ReturnStatusApproved).Error; err != nil {
			utils.LogError("Failed to approve item returns for order %d: %v", orderID, err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to review return", nil)
			return
		}

		if order.Payment.Status == models.PaymentStatusCompleted {
			if err := tx.Model(&order).Update("payment_status", models.PaymentStatusRefunded).Error; err != nil {
				utils.LogError("Failed to mark order %d refunded: %v", orderID, err)
				tx.Rollback()
				utils.InternalServerError(c, "Failed to review return", nil)
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			utils.LogError("Failed to commit return approval: %v", err)
			utils.InternalServerError(c, "Failed to review return", nil)
			return
		}

		utils.LogInfo("Return approved for order %s, refunded %.2f", order.OrderNumber, refundedAmount)
		utils.Success(c, "Return approved and refund credited", gin.H{
			"order_number":  order.OrderNumber,
			"status":        models.OrderStatusReturned,
			"refund_amount": refundedAmount,
		})
		return
	}

	// Rejection: the goods stay with the customer, so the stock released
	// at request time comes back out of the sellable pool.
	for _, item := range order.Items {
		if item.Status == models.ItemStatusCancelled || !item.Return.Requested {
			continue
		}
		if err := utils.ReserveStock(tx, item.VariantID, item.Quantity); err != nil {
			utils.LogError("Failed to re-reserve stock for variant %s: %v", item.VariantID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	if order.Payment.Status == models.PaymentStatusCompleted {
		if err := utils.DiscardPendingRefund(tx, wallet.ID, order.ID); err != nil {
			utils.LogError("Failed to discard pending refund for order %d: %v", orderID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	if err := tx.Model(&models.OrderItem{}).
		Where("order_id = ? AND return_requested = ?", order.ID, true).
		Updates(map[string]interface{}{
			"return_status":    models.ReturnStatusRejected,
			"return_requested": false,
		}).Error; err != nil {
		utils.LogError("Failed to reject item returns for order %d: %v", orderID, err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to review return", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit return rejection: %v", err)
		utils.InternalServerError(c, "Failed to review return", nil)
		return
	}

	utils.LogInfo("Return rejected for order %s", order.OrderNumber)
	utils.Success(c, "Return rejected", gin.H{
		"order_number": order.OrderNumber,
		"status":       models.OrderStatusDelivered,
	})
}

// ListReturnRequests lists orders awaiting return review
func ListReturnRequests(c *gin.Context) {
	utils.LogInfo("ListReturnRequests called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{}).Where("status = ?", models.OrderStatusReturnRequested)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count return requests: %v", err)
		utils.InternalServerError(c, "Failed to load return requests", nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Order("updated_at ASC").Find(&orders).Error; err != nil {
		utils.LogError("Failed to load return requests: %v", err)
		utils.InternalServerError(c, "Failed to load return requests", nil)
		return
	}

	utils.SendPaginatedResponse(c, orders, pagination)
}
