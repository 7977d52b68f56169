// internal/api/types/response.go
package types

import (
	"encoding/json"
	"time"

	"wallet-ledger/internal/domain"
)

// WalletResponse is the JSON shape of a wallet. The balance is emitted as a
// JSON number with its exact decimal digits, never through float64.
type WalletResponse struct {
	UserID    int64       `json:"userId"`
	Balance   json.Number `json:"balance"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewWalletResponse converts a domain wallet into its response form.
func NewWalletResponse(w *domain.Wallet) WalletResponse {
	return WalletResponse{
		UserID:    w.UserID,
		Balance:   json.Number(w.Balance.String()),
		CreatedAt: w.CreatedAt,
	}
}

// Success messages returned as plain text by the mutation endpoints.
const (
	MessageDeposit    = "Deposit successful"
	MessageWithdrawal = "Withdrawal successful"
	MessageTransfer   = "Transfer successful"
)
