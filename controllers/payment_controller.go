package controllers

import (
	"fmt"
	"os"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
)

// InitiatePayment creates a Razorpay order for a placed order. Retrying a
// failed payment re-reserves the stock that was released on failure; the
// retry is refused if the stock is gone.
func InitiatePayment(c *gin.Context) {
	utils.LogInfo("InitiatePayment called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var req struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment initiation request: %v", err)
		utils.BadRequest(c, "Invalid request. order_id is required", err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").Where("id = ? AND user_id = ?", req.OrderID, user.ID).
		First(&order).Error; err != nil {
		utils.LogError("Order not found for ID: %d, user ID: %d", req.OrderID, user.ID)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	if order.Payment.Method != models.PaymentMethodRazorpay {
		utils.LogError("Payment initiation on non-Razorpay order %d", order.ID)
		utils.BadRequest(c, "This order does not use online payment", nil)
		return
	}
	if order.Payment.Status == models.PaymentStatusCompleted {
		utils.LogError("Payment already completed for order %d", order.ID)
		utils.BadRequest(c, "Payment for this order has already been completed", nil)
		return
	}
	if order.Payment.Status != models.PaymentStatusPending && order.Payment.Status != models.PaymentStatusFailed {
		utils.LogError("Payment initiation in status %s for order %d", order.Payment.Status, order.ID)
		utils.BadRequest(c, "Payment cannot be initiated for this order", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}

	// A failed payment released its stock. The retry reserves it again and
	// fails the same way a fresh checkout would if it has been sold.
	if order.Payment.Status == models.PaymentStatusFailed {
		for _, item := range order.Items {
			if item.Status == models.ItemStatusCancelled {
				continue
			}
			if err := utils.ReserveStock(tx, item.VariantID, item.Quantity); err != nil {
				utils.LogError("Retry stock reservation failed for variant %s: %v", item.VariantID, err)
				tx.Rollback()
				utils.RespondError(c, err)
				return
			}
		}
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusPending,
			"status":         models.OrderStatusProcessing,
		}).Error; err != nil {
			utils.LogError("Failed to reset order %d for payment retry: %v", order.ID, err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to initiate payment", nil)
			return
		}
	}

	amountPaise := int(utils.RoundMoney(order.Pricing.FinalAmount) * 100)
	utils.LogInfo("Creating Razorpay order for %d paise, order %s", amountPaise, order.OrderNumber)

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY_ID"), os.Getenv("RAZORPAY_KEY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         order.OrderNumber,
		"payment_capture": 1,
	}
	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for order %d: %v", order.ID, err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to create payment order", nil)
		return
	}

	razorpayOrderID := fmt.Sprintf("%v", rzOrder["id"])
	if err := tx.Model(&order).Update("payment_razorpay_order_id", razorpayOrderID).Error; err != nil {
		utils.LogError("Failed to store Razorpay order ID for order %d: %v", order.ID, err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit payment initiation: %v", err)
		utils.InternalServerError(c, "Failed to initiate payment", nil)
		return
	}

	utils.LogInfo("Payment initiated for order %s", order.OrderNumber)
	utils.Success(c, "Payment initiated successfully", gin.H{
		"order_id":          order.ID,
		"order_number":      order.OrderNumber,
		"razorpay_order_id": razorpayOrderID,
		"amount":            amountPaise,
		"currency":          "INR",
		"key":               os.Getenv("RAZORPAY_KEY_ID"),
		"user": gin.H{
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// VerifyPayment checks the gateway signature for a Razorpay payment. A valid
// signature completes the payment; an invalid one fails it and releases the
// reserved stock so retry goes through initiation again.
func VerifyPayment(c *gin.Context) {
	utils.LogInfo("VerifyPayment called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var req struct {
		OrderID           uint   `json:"order_id" binding:"required"`
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid payment verification request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items").Where("id = ? AND user_id = ?", req.OrderID, user.ID).
		First(&order).Error; err != nil {
		utils.LogError("Order not found for ID: %d, user ID: %d", req.OrderID, user.ID)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	if order.Payment.RazorpayOrderID != req.RazorpayOrderID {
		utils.LogError("Razorpay order ID mismatch for order %d. Expected: %s, Received: %s",
			order.ID, order.Payment.RazorpayOrderID, req.RazorpayOrderID)
		utils.BadRequest(c, "Invalid Razorpay order ID", nil)
		return
	}
	if order.Payment.Status == models.PaymentStatusCompleted {
		utils.Success(c, "Payment already verified", gin.H{"order_number": order.OrderNumber})
		return
	}
	if !order.Payment.AwaitingVerification() {
		utils.LogError("Verification attempted in payment status %s for order %d", order.Payment.Status, order.ID)
		utils.BadRequest(c, "Payment is not awaiting verification. Initiate the payment again.", nil)
		return
	}

	if !utils.VerifyRazorpaySignature(req.RazorpayOrderID, req.RazorpayPaymentID,
		req.RazorpaySignature, os.Getenv("RAZORPAY_KEY_SECRET")) {
		utils.LogError("Payment signature mismatch for order %d", order.ID)

		tx := config.DB.Begin()
		if tx.Error != nil {
			utils.InternalServerError(c, "Failed to process payment failure", nil)
			return
		}
		// Settle the payment first with the Pending status re-checked in the
		// same UPDATE; a replayed failure aborts before releasing stock again.
		result := tx.Model(&models.Order{}).
			Where("id = ? AND payment_status = ?", order.ID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"payment_status": models.PaymentStatusFailed,
				"status":         models.OrderStatusFailed,
			})
		if result.Error != nil {
			utils.LogError("Failed to mark payment failed for order %d: %v", order.ID, result.Error)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to process payment failure", nil)
			return
		}
		if result.RowsAffected == 0 {
			utils.LogError("Payment for order %d was settled by another request", order.ID)
			tx.Rollback()
			utils.RespondError(c, utils.ConflictErr("Payment was settled by another request"))
			return
		}
		for _, item := range order.Items {
			if item.Status == models.ItemStatusCancelled {
				continue
			}
			if err := utils.ReleaseStock(tx, item.VariantID, item.Quantity); err != nil {
				utils.LogError("Failed to release stock on payment failure: %v", err)
				tx.Rollback()
				utils.InternalServerError(c, "Failed to process payment failure", nil)
				return
			}
		}
		if err := tx.Commit().Error; err != nil {
			utils.InternalServerError(c, "Failed to process payment failure", nil)
			return
		}

		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to update payment", nil)
		return
	}
	result := tx.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, models.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status":              models.PaymentStatusCompleted,
			"payment_razorpay_payment_id": req.RazorpayPaymentID,
		})
	if result.Error != nil {
		utils.LogError("Failed to complete payment for order %d: %v", order.ID, result.Error)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to update payment", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.LogError("Payment for order %d was settled by another request", order.ID)
		tx.Rollback()
		utils.RespondError(c, utils.ConflictErr("Payment was settled by another request"))
		return
	}
	// The cart held the order's lines through the gateway round trip; it
	// clears once the payment settles.
	if err := utils.ClearCart(tx, user.ID); err != nil {
		utils.LogError("Failed to clear cart for user %d: %v", user.ID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit payment completion: %v", err)
		utils.InternalServerError(c, "Failed to update payment", nil)
		return
	}

	utils.LogInfo("Payment verified for order %s", order.OrderNumber)
	utils.Success(c, "Payment verified successfully", gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       models.PaymentStatusCompleted,
	})
}
