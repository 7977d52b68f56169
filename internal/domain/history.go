// internal/domain/history.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType defines the type of a financial transaction.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeTransfer:
		return true
	}
	return false
}

// BalanceHistory is an append-only snapshot of a wallet balance after a mutation.
type BalanceHistory struct {
	ID        int64           `db:"id" json:"id"`               // BIGSERIAL
	UserID    int64           `db:"user_id" json:"userId"`      // Many rows per wallet
	Balance   decimal.Decimal `db:"balance" json:"balance"`     // Balance after the mutation
	Timestamp time.Time       `db:"timestamp" json:"timestamp"` // Insertion time
}

// NewBalanceHistory snapshots the wallet's current balance.
func NewBalanceHistory(wallet *Wallet) *BalanceHistory {
	return &BalanceHistory{
		UserID:    wallet.UserID,
		Balance:   wallet.Balance,
		Timestamp: time.Now().UTC(),
	}
}

// TransactionHistory is an append-only record of a single mutation event.
type TransactionHistory struct {
	ID           int64           `db:"id" json:"id"`                       // BIGSERIAL
	FromUserID   int64           `db:"from_user_id" json:"fromUserId"`     // Acting user
	Type         TransactionType `db:"type" json:"type"`                   // DEPOSIT, WITHDRAWAL or TRANSFER
	Amount       decimal.Decimal `db:"amount" json:"amount"`               // Always positive
	TargetUserID *int64          `db:"target_user_id" json:"targetUserId"` // Only set for TRANSFER
	Timestamp    time.Time       `db:"timestamp" json:"timestamp"`         // Insertion time
}

// NewTransactionHistory creates a new TransactionHistory instance.
func NewTransactionHistory(fromUserID int64, amount decimal.Decimal, txType TransactionType, targetUserID *int64) *TransactionHistory {
	return &TransactionHistory{
		FromUserID:   fromUserID,
		Type:         txType,
		Amount:       amount,
		TargetUserID: targetUserID,
		Timestamp:    time.Now().UTC(),
	}
}
