package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet backs a user's store credit. Balance must always equal the sum of
// Completed transactions (Deposits and Refunds add, Purchases subtract) and
// is never allowed to go negative. Pending refunds do not affect balance
// until approved.
type Wallet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `json:"user_id" gorm:"uniqueIndex"`
	Balance   float64        `json:"balance" gorm:"default:0"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// WalletTransaction is one entry of the append-only ledger.
type WalletTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WalletID    uint      `gorm:"index" json:"wallet_id"`
	Wallet      Wallet    `json:"-" gorm:"foreignKey:WalletID"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	OrderID     *uint     `json:"order_id,omitempty"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Transaction type constants
const (
	TransactionTypeDeposit  = "Deposit"
	TransactionTypePurchase = "Purchase"
	TransactionTypeRefund   = "Refund"
)

// Transaction status constants
const (
	TransactionStatusPending   = "Pending"
	TransactionStatusCompleted = "Completed"
)

// LedgerBalance folds a transaction log into the balance it implies.
// Only Completed transactions count; Purchases subtract, everything else
// adds.
func LedgerBalance(transactions []WalletTransaction) float64 {
	var balance float64
	for _, t := range transactions {
		if t.Status != TransactionStatusCompleted {
			continue
		}
		if t.Type == TransactionTypePurchase {
			balance -= t.Amount
		} else {
			balance += t.Amount
		}
	}
	return balance
}
