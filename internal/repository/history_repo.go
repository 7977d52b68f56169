// internal/repository/history_repo.go
package repository

import (
	"context"

	"wallet-ledger/internal/domain"
)

// BalanceHistoryRepository appends balance snapshots.
type BalanceHistoryRepository interface {
	// CreateBalanceHistory inserts the row and sets its generated ID.
	CreateBalanceHistory(ctx context.Context, q DBExecutor, entry *domain.BalanceHistory) error
}

// TransactionHistoryRepository appends transaction records.
type TransactionHistoryRepository interface {
	// CreateTransactionHistory inserts the row and sets its generated ID.
	CreateTransactionHistory(ctx context.Context, q DBExecutor, entry *domain.TransactionHistory) error
}
