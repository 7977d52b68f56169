// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"wallet-ledger/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet inserts a new wallet. A duplicate user ID yields util.ErrWalletAlreadyExists.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByUserID reads a wallet without locking it.
	GetWalletByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletForUpdate reads a wallet and locks its row until the transaction ends.
	GetWalletForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// LockWallets locks every existing wallet among userIDs in ascending user ID
	// order and returns them keyed by user ID. Missing wallets are simply absent.
	LockWallets(ctx context.Context, q DBExecutor, userIDs ...int64) (map[int64]*domain.Wallet, error)
	// UpdateWalletBalance adds delta (which may be negative) to the balance and
	// returns the wallet as stored afterwards.
	UpdateWalletBalance(ctx context.Context, q DBExecutor, userID int64, delta decimal.Decimal) (*domain.Wallet, error)
}
