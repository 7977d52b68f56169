// internal/api/types/response_test.go
package types

import (
	"encoding/json"
	"testing"
	"time"

	"wallet-ledger/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletResponseJSON(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	w := &domain.Wallet{UserID: 1, Balance: decimal.RequireFromString("1234567890.1234"), CreatedAt: created}

	body, err := json.Marshal(NewWalletResponse(w))
	require.NoError(t, err)

	assert.JSONEq(t, `{"userId":1,"balance":1234567890.1234,"createdAt":"2026-10-16T09:30:00Z"}`, string(body))
}

func TestZeroBalanceIsANumber(t *testing.T) {
	body, err := json.Marshal(NewWalletResponse(domain.NewWallet(5)))
	require.NoError(t, err)
	assert.Contains(t, string(body), `"balance":0,`)
}
