package controllers

import (
	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/middleware"
	"github.com/chronocraft/chronocraft/models"
	"github.com/chronocraft/chronocraft/utils"
	"github.com/gin-gonic/gin"
)

// GetWallet returns the user's wallet with its transaction history. Pending
// refunds are listed but reported separately from the spendable balance.
func GetWallet(c *gin.Context) {
	utils.LogInfo("GetWallet called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count wallet transactions: %v", err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}
	pagination.SetTotal(total)

	var transactions []models.WalletTransaction
	if err := query.Offset(pagination.Offset).Limit(pagination.Limit).
		Order("created_at DESC").Find(&transactions).Error; err != nil {
		utils.LogError("Failed to load wallet transactions: %v", err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	var pendingRefunds float64
	if err := config.DB.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND type = ? AND status = ?",
			wallet.ID, models.TransactionTypeRefund, models.TransactionStatusPending).
		Select("COALESCE(SUM(amount), 0)").Scan(&pendingRefunds).Error; err != nil {
		utils.LogError("Failed to sum pending refunds: %v", err)
		utils.InternalServerError(c, "Failed to load wallet", nil)
		return
	}

	utils.Success(c, "Wallet retrieved", gin.H{
		"wallet":          wallet,
		"pending_refunds": utils.RoundMoney(pendingRefunds),
		"transactions":    transactions,
		"pagination": gin.H{
			"total":    pagination.Total,
			"page":     pagination.Page,
			"per_page": pagination.Limit,
		},
	})
}

// AddMoney deposits money into the user's wallet
func AddMoney(c *gin.Context) {
	utils.LogInfo("AddMoney called")
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Unauthorized(c, utils.ErrUnauthorized)
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}
	if req.Amount <= 0 {
		utils.BadRequest(c, "Amount must be positive", nil)
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.LogError("Failed to begin transaction: %v", tx.Error)
		utils.InternalServerError(c, "Failed to add money", nil)
		return
	}

	wallet, err := utils.GetOrCreateWallet(tx, user.ID)
	if err != nil {
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	transaction, err := utils.CreditWallet(tx, wallet.ID, utils.RoundMoney(req.Amount),
		models.TransactionTypeDeposit, nil, models.TransactionStatusCompleted, "Wallet deposit")
	if err != nil {
		utils.LogError("Failed to deposit to wallet %d: %v", wallet.ID, err)
		tx.Rollback()
		utils.RespondError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.LogError("Failed to commit deposit: %v", err)
		utils.InternalServerError(c, "Failed to add money", nil)
		return
	}

	utils.LogInfo("User %d deposited %.2f to wallet", user.ID, req.Amount)
	utils.Success(c, "Money added to wallet", gin.H{
		"transaction": transaction,
		"balance":     wallet.Balance + transaction.Amount,
	})
}
