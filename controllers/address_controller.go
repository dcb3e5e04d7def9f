package controllers

import (
	"strconv"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// AddressRequest represents the address create/update request body
type AddressRequest struct {
	Name      string `json:"name" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Pincode   string `json:"pincode" binding:"required"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

// AddAddress creates an address for the user
func AddAddress(c *gin.Context) {
	utils.LogInfo("AddAddress called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if valid, msg := utils.ValidatePincode(req.Pincode); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}

	address := models.Address{
		UserID:    user.ID,
		Name:      req.Name,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Pincode:   req.Pincode,
		Phone:     req.Phone,
		IsDefault: req.IsDefault,
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to add address", nil)
		return
	}

	if req.IsDefault {
		if err := tx.Model(&models.Address{}).Where("user_id = ?", user.ID).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			utils.InternalServerError(c, "Failed to add address", nil)
			return
		}
	}
	if err := tx.Create(&address).Error; err != nil {
		utils.LogError("Failed to create address: %v", err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to add address", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to add address", nil)
		return
	}

	utils.LogInfo("Address %d created for user %d", address.ID, user.ID)
	utils.Created(c, "Address added successfully", address)
}

// ListAddresses returns the user's addresses
func ListAddresses(c *gin.Context) {
	utils.LogInfo("ListAddresses called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var addresses []models.Address
	if err := config.DB.Where("user_id = ?", user.ID).
		Order("is_default DESC, created_at DESC").Find(&addresses).Error; err != nil {
		utils.LogError("Failed to load addresses for user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to load addresses", nil)
		return
	}

	utils.Success(c, "Addresses retrieved", addresses)
}

// UpdateAddress edits one of the user's addresses
func UpdateAddress(c *gin.Context) {
	utils.LogInfo("UpdateAddress called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	addressID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid address ID", nil)
		return
	}

	var address models.Address
	if err := config.DB.Where("id = ? AND user_id = ?", addressID, user.ID).
		First(&address).Error; err != nil {
		utils.NotFound(c, "Address not found")
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if valid, msg := utils.ValidatePincode(req.Pincode); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to update address", nil)
		return
	}

	if req.IsDefault && !address.IsDefault {
		if err := tx.Model(&models.Address{}).Where("user_id = ?", user.ID).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			utils.InternalServerError(c, "Failed to update address", nil)
			return
		}
	}

	address.Name = req.Name
	address.Street = req.Street
	address.City = req.City
	address.State = req.State
	address.Pincode = req.Pincode
	address.Phone = req.Phone
	address.IsDefault = req.IsDefault

	if err := tx.Save(&address).Error; err != nil {
		utils.LogError("Failed to update address %d: %v", addressID, err)
		tx.Rollback()
		utils.InternalServerError(c, "Failed to update address", nil)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to update address", nil)
		return
	}

	utils.Success(c, "Address updated", address)
}

// DeleteAddress removes one of the user's addresses. Orders keep their
// address reference; deletion only hides it from future checkouts.
func DeleteAddress(c *gin.Context) {
	utils.LogInfo("DeleteAddress called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	addressID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.BadRequest(c, "Invalid address ID", nil)
		return
	}

	result := config.DB.Where("id = ? AND user_id = ?", addressID, user.ID).
		Delete(&models.Address{})
	if result.Error != nil {
		utils.LogError("Failed to delete address %d: %v", addressID, result.Error)
		utils.InternalServerError(c, "Failed to delete address", nil)
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "Address not found")
		return
	}

	utils.Success(c, "Address deleted", nil)
}
