package controllers

import (
	"strconv"
	"strings"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// ListOrders returns the user's orders, newest first. Supports searching by
// order number and filtering by status.
func ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("order_number ILIKE ?", "%"+strings.ToUpper(search)+"%")
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.BadRequest(c, "Unknown order status", nil)
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("Items").Preload("Items.Product").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}

	utils.LogInfo("Listed %d orders for user %d", len(orders), user.ID)
	utils.SendPaginatedResponse(c, orders, pagination)
}

// GetOrderDetails returns one of the user's orders with items, address and
// the transitions currently allowed from its status.
func GetOrderDetails(c *gin.Context) {
	utils.LogInfo("GetOrderDetails called")
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

	var order models.Order
	if err := config.DB.Preload("Items").Preload("Items.Product").Preload("Address").
		Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		utils.LogError("Order %d not found for user %d", orderID, user.ID)
		utils.NotFound(c, utils.ErrOrderNotFound)
		return
	}

	utils.Success(c, "Order details retrieved", gin.H{
		"order":               order,
		"allowed_transitions": models.AllowedTransitions(order.Status),
	})
}

// AdminListOrders returns all orders for the admin panel with the same
// search and status filters as the customer listing.
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("order_number ILIKE ?", "%"+strings.ToUpper(search)+"%")
	}
	if status := c.Query("status"); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.BadRequest(c, "Unknown order status", nil)
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}
	pagination.SetTotal(total)

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.LogError("Failed to load orders: %v", err)
		utils.InternalServerError(c, "Failed to load orders", nil)
		return
	}

	utils.SendPaginatedResponse(c, orders, pagination)
}
