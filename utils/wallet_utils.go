package utils

import (
	"github.com/chronocraft/chronocraft/models"
	"gorm.io/gorm"
)

// GetOrCreateWallet retrieves or lazily creates a wallet for a user.
func GetOrCreateWallet(db *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			wallet = models.Wallet{UserID: userID, Balance: 0}
			if err := db.Create(&wallet).Error; err != nil {
				return nil, InternalErr("Failed to create wallet", err)
			}
		} else {
			return nil, InternalErr("Failed to load wallet", err)
		}
	}
	return &wallet, nil
}

// CreditWallet appends a Deposit or Refund transaction. Completed credits
// are added to the balance immediately; Pending credits sit in the ledger
// untouched until CompletePendingRefund flips them.
func CreditWallet(tx *gorm.DB, walletID uint, amount float64, txType string, orderID *uint, status, description string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ValidationErr("Credit amount must be positive", nil)
	}
	transaction := models.WalletTransaction{
		WalletID:    walletID,
		Type:        txType,
		Amount:      amount,
		OrderID:     orderID,
		Status:      status,
		Description: description,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return nil, InternalErr("Failed to record wallet transaction", err)
	}
	if status == models.TransactionStatusCompleted {
		if err := tx.Model(&models.Wallet{}).Where("id = ?", walletID).
			UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return nil, InternalErr("Failed to update wallet balance", err)
		}
	}
	return &transaction, nil
}

// DebitWallet subtracts a purchase from the balance and appends a Completed
// Purchase transaction. The sufficiency check and the subtraction are one
// conditional UPDATE; the balance can never go negative.
func DebitWallet(tx *gorm.DB, walletID uint, amount float64, orderID *uint, description string) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ValidationErr("Debit amount must be positive", nil)
	}
	result := tx.Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return nil, InternalErr("Failed to debit wallet", result.Error)
	}
	if result.RowsAffected == 0 {
		var wallet models.Wallet
		if err := tx.First(&wallet, walletID).Error; err != nil {
			return nil, NotFoundErr(ErrWalletNotFound)
		}
		return nil, InsufficientBalanceErr(wallet.Balance, amount)
	}

	transaction := models.WalletTransaction{
		WalletID:    walletID,
		Type:        models.TransactionTypePurchase,
		Amount:      amount,
		OrderID:     orderID,
		Status:      models.TransactionStatusCompleted,
		Description: description,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return nil, InternalErr("Failed to record wallet transaction", err)
	}
	return &transaction, nil
}

// CompletePendingRefund finds the Pending refund recorded for an order,
// flips it to Completed and adds its amount to the balance.
func CompletePendingRefund(tx *gorm.DB, walletID, orderID uint) (*models.WalletTransaction, error) {
	var transaction models.WalletTransaction
	if err := tx.Where("wallet_id = ? AND order_id = ? AND type = ? AND status = ?",
		walletID, orderID, models.TransactionTypeRefund, models.TransactionStatusPending).
		First(&transaction).Error; err != nil {
		return nil, NotFoundErr("Pending refund transaction not found")
	}

	if err := tx.Model(&transaction).Update("status", models.TransactionStatusCompleted).Error; err != nil {
		return nil, InternalErr("Failed to complete refund transaction", err)
	}
	if err := tx.Model(&models.Wallet{}).Where("id = ?", walletID).
		UpdateColumn("balance", gorm.Expr("balance + ?", transaction.Amount)).Error; err != nil {
		return nil, InternalErr("Failed to update wallet balance", err)
	}
	transaction.Status = models.TransactionStatusCompleted
	return &transaction, nil
}

// DiscardPendingRefund removes the Pending refund recorded for an order
// without touching the balance. Used when an admin rejects a return.
func DiscardPendingRefund(tx *gorm.DB, walletID, orderID uint) error {
	result := tx.Where("wallet_id = ? AND order_id = ? AND type = ? AND status = ?",
		walletID, orderID, models.TransactionTypeRefund, models.TransactionStatusPending).
		Delete(&models.WalletTransaction{})
	if result.Error != nil {
		return InternalErr("Failed to discard refund transaction", result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundErr("Pending refund transaction not found")
	}
	return nil
}
