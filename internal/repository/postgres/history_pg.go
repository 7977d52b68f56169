// internal/repository/postgres/history_pg.go
package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"
)

// BalanceHistoryRepository implements repository.BalanceHistoryRepository for PostgreSQL.
type BalanceHistoryRepository struct{}

// NewBalanceHistoryRepository creates a new BalanceHistoryRepository.
func NewBalanceHistoryRepository() repository.BalanceHistoryRepository {
	return &BalanceHistoryRepository{}
}

// CreateBalanceHistory appends a balance snapshot.
func (r *BalanceHistoryRepository) CreateBalanceHistory(ctx context.Context, q repository.DBExecutor, entry *domain.BalanceHistory) error {
	query := `INSERT INTO balances_history (user_id, balance, "timestamp")
              VALUES ($1, $2, $3) RETURNING id`
	if err := q.QueryRowContext(ctx, query, entry.UserID, entry.Balance, entry.Timestamp).Scan(&entry.ID); err != nil {
		return fmt.Errorf("failed to create balance history for user %d: %w", entry.UserID, err)
	}
	return nil
}

// TransactionHistoryRepository implements repository.TransactionHistoryRepository for PostgreSQL.
type TransactionHistoryRepository struct{}

// NewTransactionHistoryRepository creates a new TransactionHistoryRepository.
func NewTransactionHistoryRepository() repository.TransactionHistoryRepository {
	return &TransactionHistoryRepository{}
}

// CreateTransactionHistory appends a transaction record.
func (r *TransactionHistoryRepository) CreateTransactionHistory(ctx context.Context, q repository.DBExecutor, entry *domain.TransactionHistory) error {
	query := `INSERT INTO transactions_history (from_user_id, type, amount, target_user_id, "timestamp")
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		entry.FromUserID,
		entry.Type,
		entry.Amount,
		entry.TargetUserID,
		entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create %s transaction history for user %d: %w", entry.Type, entry.FromUserID, err)
	}
	return nil
}
