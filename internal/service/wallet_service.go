// internal/service/wallet_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/util"
	"wallet-ledger/pkg/db"

	"github.com/shopspring/decimal"
)

// WalletService defines the interface for wallet-related business logic.
// Mutating methods return the wallet(s) as stored after the change so callers
// can record history without reading them again.
type WalletService interface {
	CreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error)
	GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Wallet, error)
	Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Wallet, error)
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal) (*domain.Wallet, *domain.Wallet, error)
}

// walletService implements the WalletService interface.
type walletService struct {
	dbBeginner db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	walletRepo repository.WalletRepository
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
	logger     *slog.Logger
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) WalletService {
	return &walletService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		walletRepo: walletRepo,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
		logger:     logger,
	}
}

// inTx runs fn inside one database transaction. The transaction is committed
// only if fn succeeds and is rolled back on every other path.
func (s *walletService) inTx(ctx context.Context, fn func(q repository.DBExecutor) error) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return errors.New("transaction controller does not implement DBExecutor")
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// logRejected logs domain rejections at warn and everything else at error.
func (s *walletService) logRejected(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	if _, _, ok := util.Classify(err); ok {
		s.logger.WarnContext(ctx, msg, attrs...)
		return
	}
	s.logger.ErrorContext(ctx, msg, attrs...)
}

// CreateWallet opens a zero-balance wallet for userID.
func (s *walletService) CreateWallet(ctx context.Context, userID int64) (*domain.Wallet, error) {
	s.logger.InfoContext(ctx, "Creating wallet", "user_id", userID)

	wallet := domain.NewWallet(userID)
	err := s.inTx(ctx, func(q repository.DBExecutor) error {
		_, err := s.walletRepo.GetWalletByUserID(ctx, q, userID)
		if err == nil {
			return util.ErrWalletAlreadyExists
		}
		if !errors.Is(err, util.ErrWalletNotFound) {
			return fmt.Errorf("failed to check existing wallet: %w", err)
		}

		if err := s.walletRepo.CreateWallet(ctx, q, wallet); err != nil {
			return fmt.Errorf("failed to insert wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logRejected(ctx, "Wallet creation failed", err, "user_id", userID)
		return nil, fmt.Errorf("create wallet: %w", err)
	}

	s.logger.InfoContext(ctx, "Wallet created", "user_id", wallet.UserID, "balance", wallet.Balance.String())
	return wallet, nil
}

// GetBalance returns the last committed balance of userID's wallet.
func (s *walletService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	// For read-only operations outside a transaction, use s.dbExecutor
	wallet, err := s.walletRepo.GetWalletByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		s.logRejected(ctx, "Balance lookup failed", err, "user_id", userID)
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return wallet.Balance, nil
}

// Deposit adds amount to userID's wallet.
func (s *walletService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Wallet, error) {
	if !domain.ValidAmount(amount) {
		return nil, util.ErrInvalidAmount
	}
	s.logger.InfoContext(ctx, "Processing deposit", "user_id", userID, "amount", amount.String())

	var updated *domain.Wallet
	err := s.inTx(ctx, func(q repository.DBExecutor) error {
		// The update is a single atomic statement; a missing row surfaces as ErrWalletNotFound.
		w, err := s.walletRepo.UpdateWalletBalance(ctx, q, userID, amount)
		if err != nil {
			return fmt.Errorf("failed to credit wallet %d: %w", userID, err)
		}
		updated = w
		return nil
	})
	if err != nil {
		s.logRejected(ctx, "Deposit failed", err, "user_id", userID, "amount", amount.String())
		return nil, fmt.Errorf("deposit: %w", err)
	}

	s.logger.InfoContext(ctx, "Deposit successful", "user_id", userID, "balance", updated.Balance.String())
	return updated, nil
}

// Withdraw takes amount from userID's wallet. The full balance may be withdrawn.
func (s *walletService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.Wallet, error) {
	if !domain.ValidAmount(amount) {
		return nil, util.ErrInvalidAmount
	}
	s.logger.InfoContext(ctx, "Processing withdrawal", "user_id", userID, "amount", amount.String())

	var updated *domain.Wallet
	err := s.inTx(ctx, func(q repository.DBExecutor) error {
		wallet, err := s.walletRepo.GetWalletForUpdate(ctx, q, userID)
		if err != nil {
			return fmt.Errorf("failed to get wallet %d: %w", userID, err)
		}
		if !wallet.CanDebit(amount) {
			return util.ErrInsufficientFunds
		}

		w, err := s.walletRepo.UpdateWalletBalance(ctx, q, userID, amount.Neg())
		if err != nil {
			return fmt.Errorf("failed to debit wallet %d: %w", userID, err)
		}
		updated = w
		return nil
	})
	if err != nil {
		s.logRejected(ctx, "Withdrawal failed", err, "user_id", userID, "amount", amount.String())
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	s.logger.InfoContext(ctx, "Withdrawal successful", "user_id", userID, "balance", updated.Balance.String())
	return updated, nil
}

// Transfer moves amount from one wallet to another. Both wallets are locked
// before either is checked, and both writes commit together or not at all.
// A transfer to the same wallet is allowed: funds are checked, nothing moves,
// and the same wallet is returned as source and destination.
func (s *walletService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal) (*domain.Wallet, *domain.Wallet, error) {
	if !domain.ValidAmount(amount) {
		return nil, nil, util.ErrInvalidAmount
	}
	s.logger.InfoContext(ctx, "Processing transfer",
		"from_user_id", fromUserID, "to_user_id", toUserID, "amount", amount.String())

	var fromUpdated, toUpdated *domain.Wallet
	err := s.inTx(ctx, func(q repository.DBExecutor) error {
		locked, err := s.walletRepo.LockWallets(ctx, q, fromUserID, toUserID)
		if err != nil {
			return err
		}

		fromWallet, ok := locked[fromUserID]
		if !ok {
			return util.ErrSourceWalletNotFound
		}
		toWallet, ok := locked[toUserID]
		if !ok {
			return util.ErrDestinationWalletNotFound
		}
		if !fromWallet.CanDebit(amount) {
			return util.ErrInsufficientFunds
		}

		if fromUserID == toUserID {
			fromUpdated, toUpdated = fromWallet, toWallet
			return nil
		}

		if fromUpdated, err = s.walletRepo.UpdateWalletBalance(ctx, q, fromUserID, amount.Neg()); err != nil {
			return fmt.Errorf("failed to debit source wallet %d: %w", fromUserID, err)
		}
		if toUpdated, err = s.walletRepo.UpdateWalletBalance(ctx, q, toUserID, amount); err != nil {
			return fmt.Errorf("failed to credit destination wallet %d: %w", toUserID, err)
		}
		return nil
	})
	if err != nil {
		s.logRejected(ctx, "Transfer failed", err,
			"from_user_id", fromUserID, "to_user_id", toUserID, "amount", amount.String())
		return nil, nil, fmt.Errorf("transfer: %w", err)
	}

	s.logger.InfoContext(ctx, "Transfer successful",
		"from_user_id", fromUserID, "to_user_id", toUserID, "amount", amount.String(),
		"from_balance", fromUpdated.Balance.String(), "to_balance", toUpdated.Balance.String())
	return fromUpdated, toUpdated, nil
}
