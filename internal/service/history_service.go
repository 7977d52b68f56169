// internal/service/history_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"

	"github.com/shopspring/decimal"
)

// BalanceHistoryService appends balance snapshots after committed mutations.
type BalanceHistoryService interface {
	Record(ctx context.Context, wallet *domain.Wallet) error
}

// TransactionHistoryService appends one record per committed mutation.
// targetUserID is set for transfers only.
type TransactionHistoryService interface {
	Record(ctx context.Context, fromUserID int64, amount decimal.Decimal, txType domain.TransactionType, targetUserID *int64) error
}

type balanceHistoryService struct {
	dbExecutor repository.DBExecutor
	repo       repository.BalanceHistoryRepository
	logger     *slog.Logger
}

// NewBalanceHistoryService creates a BalanceHistoryService writing outside any
// wallet transaction.
func NewBalanceHistoryService(dbExecutor repository.DBExecutor, repo repository.BalanceHistoryRepository, logger *slog.Logger) BalanceHistoryService {
	return &balanceHistoryService{dbExecutor: dbExecutor, repo: repo, logger: logger}
}

func (s *balanceHistoryService) Record(ctx context.Context, wallet *domain.Wallet) error {
	s.logger.InfoContext(ctx, "Recording balance history", "user_id", wallet.UserID, "balance", wallet.Balance.String())

	entry := domain.NewBalanceHistory(wallet)
	if err := s.repo.CreateBalanceHistory(ctx, s.dbExecutor, entry); err != nil {
		return fmt.Errorf("record balance: %w", err)
	}
	return nil
}

type transactionHistoryService struct {
	dbExecutor repository.DBExecutor
	repo       repository.TransactionHistoryRepository
	logger     *slog.Logger
}

// NewTransactionHistoryService creates a TransactionHistoryService writing
// outside any wallet transaction.
func NewTransactionHistoryService(dbExecutor repository.DBExecutor, repo repository.TransactionHistoryRepository, logger *slog.Logger) TransactionHistoryService {
	return &transactionHistoryService{dbExecutor: dbExecutor, repo: repo, logger: logger}
}

func (s *transactionHistoryService) Record(ctx context.Context, fromUserID int64, amount decimal.Decimal, txType domain.TransactionType, targetUserID *int64) error {
	if !txType.Valid() {
		return fmt.Errorf("record transaction: unknown type %q", txType)
	}
	if (txType == domain.TransactionTypeTransfer) != (targetUserID != nil) {
		return fmt.Errorf("record transaction: counterparty must be set for %s only", domain.TransactionTypeTransfer)
	}

	attrs := []any{"from_user_id", fromUserID, "type", string(txType), "amount", amount.String()}
	if targetUserID != nil {
		attrs = append(attrs, "target_user_id", *targetUserID)
	}
	s.logger.InfoContext(ctx, "Recording transaction history", attrs...)

	entry := domain.NewTransactionHistory(fromUserID, amount, txType, targetUserID)
	if err := s.repo.CreateTransactionHistory(ctx, s.dbExecutor, entry); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}
