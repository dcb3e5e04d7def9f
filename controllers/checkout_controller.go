package controllers

import (
	"time"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PlaceOrderRequest represents the order placement request body
type PlaceOrderRequest struct {
	AddressID     uint   `json:"address_id" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// GetCheckoutSummary returns the priced cart plus the payment methods
// available for it
func GetCheckoutSummary(c *gin.Context) {
	utils.LogInfo("GetCheckoutSummary called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	snapshot, err := utils.BuildCartSnapshot(config.DB, user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var addresses []models.Address
	if err := config.DB.Where("user_id = ?", user.ID).Find(&addresses).Error; err != nil {
		utils.LogError("Failed to load addresses for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load addresses", nil)
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	paymentMethods := []gin.H{
		{"method": models.PaymentMethodCOD, "available": utils.CODAvailable(snapshot.Pricing.FinalAmount)},
		{"method": models.PaymentMethodRazorpay, "available": true},
		{"method": models.PaymentMethodWallet, "available": wallet.Balance >= snapshot.Pricing.FinalAmount},
	}

	utils.Success(c, "Checkout summary retrieved", gin.H{
		"cart":            snapshot,
		"addresses":       addresses,
		"wallet_balance":  wallet.Balance,
		"payment_methods": paymentMethods,
	})
}

// PlaceOrder converts the user's cart into an order. Stock reservation,
// wallet debit, order number issue, coupon usage accounting and cart
// clearing all commit or roll back together.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid place-order request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	method, ok := models.NormalizePaymentMethod(req.PaymentMethod)
	if !ok {
		utils.LogError("Invalid payment method: %s", req.PaymentMethod)
		utils.BadRequest(c, utils.ErrInvalidPayment, nil)
		return
	}

	var address models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", req.AddressID, user.ID).
		First(&address).Error; err != nil {
		utils.LogError("Address %d not found for user %d", req.AddressID, user.ID)
		utils.NotFound(c, "Address not found")
		return
	}

	snapshot, err := utils.BuildCartSnapshot(config.DB, user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	pricing := utils.OrderTotals(snapshot.Subtotal, snapshot.CouponDiscount)

	if method == models.PaymentMethodCOD && !utils.CODAvailable(pricing.FinalAmount) {
		utils.LogError("COD rejected for amount %.2f, user %d", pricing.FinalAmount, user.ID)
		utils.BadRequest(c, utils.ErrCODLimit, nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	// Reserve stock line by line. Any shortage aborts the whole order.
	for _, line := range snapshot.Lines {
		if err := utils.ReserveStock(tx, line.Variant.ID, line.Item.Quantity); err != nil {
			utils.LogError("Stock reservation failed for variant %s: %v", line.Variant.ID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	now := time.Now()
	orderNumber, err := utils.NextOrderNumber(tx, now)
	if err != nil {
		utils.LogError("Failed to generate order number: %v", err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	paymentStatus := models.PaymentStatusPending
	order := models.Order{
		OrderNumber:          orderNumber,
		UserID:               user.ID,
		AddressID:            address.ID,
		Payment:              models.Payment{Method: method, Status: paymentStatus},
		Pricing:              pricing,
		CouponCode:           snapshot.CouponCode,
		CouponDiscount:       snapshot.CouponDiscount,
		Status:               models.OrderStatusProcessing,
		ExpectedDeliveryDate: now.AddDate(0, 0, utils.DeliveryDays),
	}
	for _, line := range snapshot.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: line.Item.ProductID,
			VariantID: line.Variant.ID,
			Quantity:  line.Item.Quantity,
			Price:     line.UnitPrice,
			Status:    models.ItemStatusProcessing,
		})
	}

	if err := tx.Create(&order).Error; err != nil {
		utils.LogError("Failed to create order: %v", err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}

	// Wallet orders pay inside the placement transaction. A short balance
	// rolls back the stock reservation too.
	if method == models.PaymentMethodWallet {
		wallet, err := utils.GetOrCreateWallet(tx, user.ID)
		if err != nil {
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		if _, err := utils.DebitWallet(tx, wallet.ID, pricing.FinalAmount, &order.ID,
			"Payment for order "+order.OrderNumber); err != nil {
			utils.LogError("Wallet debit failed for order %s: %v", order.OrderNumber, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
		if err := tx.Model(&order).Update("payment_status", models.PaymentStatusCompleted).Error; err != nil {
			utils.LogError("Failed to mark wallet payment completed: %v", err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to place order", nil)
			return
		}
		order.Payment.Status = models.PaymentStatusCompleted
	}

	if snapshot.CouponCode != "" {
		if err := tx.Model(&models.Coupon{}).Where("code = ?", snapshot.CouponCode).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			utils.LogError("Failed to record coupon usage: %v", err)
			tx.Rollback()
			utils.InternalServerError(c, "Failed to place order", nil)
			return
		}
	}

	// COD and wallet orders clear the cart at placement. A Razorpay cart
	// survives until VerifyPayment succeeds so an abandoned or failed
	// payment leaves it intact for retry.
	if method != models.PaymentMethodRazorpay {
		if err := utils.ClearCart(tx, user.ID); err != nil {
			utils.LogError("Failed to clear cart for user %d: %v", user.ID, err)
			tx.Rollback()
			utils.RespondError(c, err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit order placement: %v", err)
		utils.InternalServerError(c, "Failed to place order", nil)
		return
	}
	utils.LogInfo("Order %s placed by user %d, method %s, amount %.2f",
		order.OrderNumber, user.ID, method, pricing.FinalAmount)

	// Confirmation email goes out after commit; a failure only logs.
	go func(orderID uint, email string) {
		var placed models.Order
		if err := config.DB.Preload("Items").Preload("Items.Product").First(&placed, orderID).Error; err != nil {
			utils.LogError("Failed to load order %d for confirmation email: %v", orderID, err)
			return
		}
		if err := utils.SendOrderConfirmation(email, placed); err != nil {
			utils.LogError("Failed to send confirmation email for order %d: %v", orderID, err)
		}
	}(order.ID, user.Email)

	utils.Created(c, "Order placed successfully", gin.H{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"payment":      order.Payment,
		"pricing":      order.Pricing,
	})
}
