package controllers

import (
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest represents the status update request body
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason"`
}

// UpdateOrderStatus moves an order through its lifecycle. Every change is
// checked against the transition table. Delivering an online or wallet
// order requires the payment to be completed first; delivering a COD order
// completes the payment. Cancelling restocks and refunds like a customer
// cancellation.
func UpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("UpdateOrderStatus called")

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid status update request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if !models.ValidOrderStatus(req.Status) {
		utils.LogError("Unknown order status requested: %s", req.Status)
		utils.BadRequest(c, "Unknown order status", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").First(&order, uint(orderID)).Error; err != nil {
		utils.LogError("Order %d not found", orderID)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	if !models.CanTransition(order.Status, req.Status) {
		utils.LogError("Invalid transition %s -> %s for order %d", order.Status, req.Status, orderID)
		utils.RespondError(c, utils.InvalidTransitionErr(order.Status, req.Status,
			models.AllowedTransitions(order.Status)))
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to update order status", nil)
		return
	}

	// The transition precondition is re-checked in the same UPDATE; a
	// concurrent change to the order aborts before any side effects.
	if err := utils.ClaimOrderStatus(tx, order.ID, order.Status, req.Status); err != nil {
		utils.LogError("Status update lost a concurrent change on order %d: %v", orderID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	updates := map[string]interface{}{}

	switch req.Status {
	case models.OrderStatusDelivered:
		switch order.Payment.Method {
		case models.PaymentMethodRazorpay, models.PaymentMethodWallet:
			if order.Payment.Status != models.PaymentStatusCompleted {
				utils.LogError("Delivery blocked, payment %s for order %d", order.Payment.Status, orderID)
				tx.Rollback()
				utils.BadRequest(c, "Order cannot be delivered until payment is completed", nil)
				return
			}
		case models.PaymentMethodCOD:
			// Cash changes hands at the door.
			updates["payment_status"] = models.PaymentStatusCompleted
		}
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status <> ?", order.ID, models.ItemStatusCancelled).
			Update("status", models.ItemStatusDelivered).Error; err != nil {
			utils.LogError("Failed to mark items delivered for order %d: %v", orderID, err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to update order status", nil)
			return
		}

	case models.OrderStatusShipped:
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status <> ?", order.ID, models.ItemStatusCancelled).
			Update("status", models.ItemStatusShipped).Error; err != nil {
			utils.LogError("Failed to mark items shipped for order %d: %v", orderID, err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to update order status", nil)
			return
		}

	case models.OrderStatusCancelled:
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
		}
		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ? AND status <> ?", order.ID, models.ItemStatusCancelled).
			Update("status", models.ItemStatusCancelled).Error; err != nil {
			utils.LogError("Failed to cancel items for order %d: %v", orderID, err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to update order status", nil)
			return
		}

		if order.Payment.Status == models.PaymentStatusCompleted {
			wallet, err := utils.GetOrCreateWallet(tx, order.UserID)
			if err != nil {
				tx.Rollback()
				utils.RespondError(c, err)
				return
			}
			if _, err := utils.CreditWallet(tx, wallet.ID, order.Pricing.FinalAmount,
				models.TransactionTypeRefund, &order.ID, models.TransactionStatusCompleted,
				"Refund for cancelled order "+order.OrderNumber); err != nil {
				utils.LogError("Failed to refund order %d: %v", orderID, err)
				tx.Rollback()
				utils.RespondError(c, err)
				return
			}
			updates["payment_status"] = models.PaymentStatusRefunded
		} else {
			updates["payment_status"] = models.PaymentStatusOrderCancelled
		}
		if req.Reason != "" {
			updates["cancel_reason"] = req.Reason
		}
	}

	if len(updates) > 0 {
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			utils.LogError("Failed to update order %d: %v", orderID, err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to update order status", nil)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit status update: %v", err)
		utils.InternalServerError(c, "Failed to update order status", nil)
		return
	}

	utils.LogInfo("Order %s moved from %s to %s", order.OrderNumber, order.Status, req.Status)
	utils.Success(c, "Order status updated", gin.H{
		"order_number": order.OrderNumber,
		"from":         order.Status,
		"to":           req.Status,
	})
}
