// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/util"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the SQLSTATE Postgres reports for a duplicate key.
const uniqueViolation = "23505"

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

// CreateWallet inserts a new wallet into the database using the provided DBExecutor.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, balance, created_at) VALUES ($1, $2, $3)`
	if _, err := q.ExecContext(ctx, query, wallet.UserID, wallet.Balance, wallet.CreatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return util.ErrWalletAlreadyExists
		}
		return fmt.Errorf("failed to create wallet for user %d: %w", wallet.UserID, err)
	}
	return nil
}

// GetWalletByUserID retrieves a wallet by its owner's ID using the provided DBExecutor.
func (r *WalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	query := `SELECT user_id, balance, created_at FROM wallets WHERE user_id = $1`
	return r.getOne(ctx, q, query, userID)
}

// GetWalletForUpdate retrieves a wallet and takes a row lock on it.
func (r *WalletRepository) GetWalletForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	query := `SELECT user_id, balance, created_at FROM wallets WHERE user_id = $1 FOR UPDATE`
	return r.getOne(ctx, q, query, userID)
}

func (r *WalletRepository) getOne(ctx context.Context, q repository.DBExecutor, query string, userID int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := q.GetContext(ctx, &wallet, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

// LockWallets locks the wallets of all given users in one statement. Rows are
// locked in user ID order so concurrent transfers in opposite directions
// cannot deadlock.
func (r *WalletRepository) LockWallets(ctx context.Context, q repository.DBExecutor, userIDs ...int64) (map[int64]*domain.Wallet, error) {
	wallets := []domain.Wallet{}
	query := `SELECT user_id, balance, created_at FROM wallets
              WHERE user_id = ANY($1)
              ORDER BY user_id
              FOR UPDATE`
	if err := q.SelectContext(ctx, &wallets, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to lock wallets %v: %w", userIDs, err)
	}

	byUser := make(map[int64]*domain.Wallet, len(wallets))
	for i := range wallets {
		byUser[wallets[i].UserID] = &wallets[i]
	}
	return byUser, nil
}

// UpdateWalletBalance applies delta to the stored balance and returns the updated row.
func (r *WalletRepository) UpdateWalletBalance(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `UPDATE wallets SET balance = balance + $1 WHERE user_id = $2
              RETURNING user_id, balance, created_at`
	if err := q.GetContext(ctx, &wallet, query, delta, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to update wallet balance for user %d: %w", userID, err)
	}
	return &wallet, nil
}
