// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// AmountScale is the number of fractional digits allowed in money values.
// The integer part is unbounded; the columns are plain NUMERIC.
const AmountScale = 4

// Wallet represents a user's single balance record. The wallet is keyed by the
// owning user's ID; there is no separate wallet identifier.
type Wallet struct {
	UserID    int64           `db:"user_id" json:"userId"`       // Primary key, assigned by the caller
	Balance   decimal.Decimal `db:"balance" json:"balance"`      // Never negative
	CreatedAt time.Time       `db:"created_at" json:"createdAt"` // Set once on creation
}

// NewWallet creates a new Wallet instance with a zero balance.
func NewWallet(userID int64) *Wallet {
	return &Wallet{
		UserID:    userID,
		Balance:   decimal.Zero,
		CreatedAt: time.Now().UTC(),
	}
}

// CanDebit reports whether amount can be taken without going negative.
// Taking the full balance is allowed.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// ValidAmount reports whether amount is usable for a deposit, withdrawal or
// transfer: strictly positive and representable at AmountScale without rounding.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Truncate(AmountScale))
}
