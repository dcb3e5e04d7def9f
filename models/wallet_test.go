package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerBalance(t *testing.T) {
	transactions := []WalletTransaction{
		{Type: TransactionTypeDeposit, Status: TransactionStatusCompleted, Amount: 1000},
		{Type: TransactionTypePurchase, Status: TransactionStatusCompleted, Amount: 400},
		{Type: TransactionTypeRefund, Status: TransactionStatusCompleted, Amount: 150},
		{Type: TransactionTypeRefund, Status: TransactionStatusPending, Amount: 9999},
	}

	// Pending refunds stay out of the balance until approved.
	assert.Equal(t, 750.0, LedgerBalance(transactions))
}

func TestLedgerBalanceEmpty(t *testing.T) {
	assert.Equal(t, 0.0, LedgerBalance(nil))
}
