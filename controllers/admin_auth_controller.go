package controllers

import (
	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminLogin authenticates an admin
func AdminLogin(c *gin.Context) {
	utils.LogInfo("AdminLogin called")

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid admin login request: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	var admin models.Admin
	if err := config.DB.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		utils.LogError("Admin login attempt for unknown email: %s", req.Email)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Invalid password for admin %d", admin.ID)
		utils.Unauthorized(c, "Invalid email or password")
		return
	}

	if !admin.IsActive {
		utils.LogError("Inactive admin attempted login: %d", admin.ID)
		utils.Forbidden(c, "Admin account is inactive")
		return
	}

	token, err := utils.GenerateAdminToken(&admin)
	if err != nil {
		utils.LogError("Failed to generate token for admin %d: %v", admin.ID, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("Admin %d logged in successfully", admin.ID)
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"admin": admin,
	})
}

// EnsureDefaultAdmin seeds the admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD on first boot. Does nothing if any admin exists or the
// variables are unset.
func EnsureDefaultAdmin(cfg *config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.Admin
	err := config.DB.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Email:    cfg.AdminEmail,
		Password: hash,
		IsActive: true,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		return err
	}
	utils.LogInfo("Seeded default admin account: %s", cfg.AdminEmail)
	return nil
}
