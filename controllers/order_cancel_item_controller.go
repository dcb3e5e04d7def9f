package controllers

import (
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// CancelOrderItem cancels a single line of an order while it is still
// Processing. The line's stock returns, the order is repriced without it,
// and a paid order refunds the line's prorated share of tax and coupon
// discount to the wallet. Cancelling the last remaining line cancels the
// whole order and refunds the shipping fee too.
func CancelOrderItem(c *gin.Context) {
	utils.LogInfo("CancelOrderItem called")
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
		utils.LogError("Missing cancellation reason for item %d: %v", itemID, err)
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

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == uint(itemID) {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		utils.LogError("Item %d not found on order %d", itemID, orderID)
		utils.NotFound(c, utils.ErrItemNotFound)
		return
	}
	if err := utils.ValidateItemCancellable(order, *item); err != nil {
		utils.LogError("Item %d on order %d not cancellable: %v", itemID, orderID, err)
		utils.RespondError(c, err)
		return
	}

	itemSubtotal := item.Subtotal()
	discountShare := utils.ItemDiscountShare(*item, order.Pricing.Subtotal, order.CouponDiscount)

	refundAmount := 0.0
	if order.Payment.Status == models.PaymentStatusCompleted {
		refundAmount = utils.ItemRefund(*item, order.Pricing.Subtotal, order.Pricing.Tax, order.CouponDiscount)
	}

	// Would this leave the order with no live lines?
	lastItem := true
	for _, other := range order.Items {
		if other.ID != item.ID && other.Status != models.ItemStatusCancelled {
			lastItem = false
			break
		}
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to cancel item", nil)
		return
	}

	// Flip the line first with its status re-checked in the same UPDATE so a
	// replayed or concurrent cancel cannot restock and refund twice.
	if err := utils.ClaimOrderItemStatus(tx, item.ID, models.ItemStatusCancelled); err != nil {
		utils.LogError("Item %d was cancelled by another request: %v", itemID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	if err := utils.ReleaseStock(tx, item.VariantID, item.Quantity); err != nil {
		utils.LogError("Failed to restore stock for variant %s: %v", item.VariantID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	newPricing := utils.RepriceAfterItemRemoval(order.Pricing, itemSubtotal, discountShare)
	newCouponDiscount := utils.RoundMoney(order.CouponDiscount - discountShare)
	if newCouponDiscount < 0 {
		newCouponDiscount = 0
	}

	orderStatus := order.Status
	paymentStatus := order.Payment.Status

	if lastItem {
		orderStatus = models.OrderStatusCancelled
		if order.Payment.Status == models.PaymentStatusCompleted {
			// Full cancellation refunds the shipping fee as well.
			refundAmount = utils.RoundMoney(refundAmount + order.Pricing.ShippingFee)
			paymentStatus = models.PaymentStatusRefunded
		} else {
			paymentStatus = models.PaymentStatusOrderCancelled
		}
		// The stored pricing survives full cancellation, matching a
		// whole-order cancel.
		newPricing = order.Pricing
		newCouponDiscount = order.CouponDiscount
	}

	if refundAmount > 0 {
		wallet, err := utils.GetOrCreateWallet(tx, user.ID)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		if _, err := utils.CreditWallet(tx, wallet.ID, refundAmount,
			models.TransactionTypeRefund, &order.ID, models.TransactionStatusCompleted,
			"Refund for cancelled item in order "+order.OrderNumber); err != nil {
			utils.LogError("Failed to refund item %d: %v", itemID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	updates := map[string]interface{}{
		"status":              orderStatus,
		"payment_status":      paymentStatus,
		"coupon_discount":     newCouponDiscount,
		"pricing_subtotal":    newPricing.Subtotal,
		"pricing_tax":         newPricing.Tax,
		"pricing_shipping_fee": newPricing.ShippingFee,
		"pricing_discount":    newPricing.Discount,
		"pricing_final_amount": newPricing.FinalAmount,
	}
	if lastItem {
		updates["cancel_reason"] = req.Reason
	}
	// The order row update re-checks that the order is still Processing;
	// losing that race rolls the restock and refund back with the rest of
	// the transaction.
	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, models.OrderStatusProcessing).
		Updates(updates)
	if result.Error != nil {
		utils.LogError("Failed to reprice order %d: %v", orderID, result.Error)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to cancel item", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.LogError("Item cancellation lost a concurrent update on order %d", orderID)
		tx.Rollback()
		utils.RespondError(c, utils.ConflictErr("Order was updated by another request. Please reload and try again."))
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit item cancellation: %v", err)
		utils.InternalServerError(c, "Failed to cancel item", nil)
		return
	}

	utils.LogInfo("Item %d cancelled on order %s, refund %.2f", itemID, order.OrderNumber, refundAmount)
	utils.Success(c, "Item cancelled successfully", gin.H{
		"order_number":  order.OrderNumber,
		"order_status":  orderStatus,
		"refund_amount": refundAmount,
		"pricing":       newPricing,
	})
}
