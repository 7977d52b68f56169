// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app "wallet-ledger/internal"
	"wallet-ledger/internal/util"
)

// testApp is the global application instance for testing. It stays nil unless
// INTEGRATION_DB=1, in which case a PostgreSQL test database must be reachable.
var testApp *app.Application

// testServer is the httptest server.
var testServer *httptest.Server

// TestMain is the special entry point for Go tests, executed once before all tests.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_DB") != "1" {
		os.Exit(m.Run())
	}

	// 1. Set up environment variables (ensure DB_NAME points to the test database).
	setupEnvVars()

	// 2. Initialize the application; migrations run on start.
	testApp = app.NewApplication()
	if err := testApp.Initialize(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize test application: %v\n", err)
		os.Exit(1)
	}

	// 3. Start an httptest server to test the HTTP handling layer.
	testServer = httptest.NewServer(testApp.HTTPHandler)

	// 4. Run all tests.
	code := m.Run()

	// 5. Shut down application resources after tests.
	testServer.Close()
	if err := testApp.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shutdown test application: %v\n", err)
		os.Exit(1)
	}

	os.Exit(code)
}

// setupEnvVars points the application at the test database unless the
// environment already says otherwise.
func setupEnvVars() {
	defaults := map[string]string{
		"DB_HOST":     "localhost",
		"DB_PORT":     "5432",
		"DB_USER":     "user",
		"DB_PASSWORD": "password",
		"DB_NAME":     "walletdb_test",
		"DB_SSLMODE":  "disable",
		"DB_MIGRATE":  "true",
		"LOG_LEVEL":   "warn",
	}
	for key, value := range defaults {
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testApp == nil {
		t.Skip("set INTEGRATION_DB=1 to run against PostgreSQL")
	}
}

// clearDatabase truncates every table so each test starts from an empty ledger.
func clearDatabase(t *testing.T) {
	for _, table := range []string{"transactions_history", "balances_history", "wallets"} {
		_, err := testApp.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", table))
		require.NoError(t, err, "Failed to truncate table %s", table)
	}
}

// makeRequest sends an HTTP request to the test server and returns the
// response with its body already read.
func makeRequest(t *testing.T, method, path string) (*http.Response, string) {
	req, err := http.NewRequest(method, testServer.URL+path, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(respBody)
}

func countRows(t *testing.T, table string) int {
	var n int
	require.NoError(t, testApp.DB.Get(&n, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)))
	return n
}

func balanceOf(t *testing.T, userID int64) decimal.Decimal {
	resp, body := makeRequest(t, http.MethodGet, fmt.Sprintf("/api/wallet/%d/balance", userID))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	balance, err := decimal.NewFromString(body)
	require.NoError(t, err)
	return balance
}

// TestWalletLifecycleIntegration walks two wallets through every operation
// and checks balances and history rows at the end.
func TestWalletLifecycleIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	steps := []struct {
		path   string
		status int
		body   string
	}{
		{"/api/wallet/1", http.StatusOK, ""},
		{"/api/wallet/1/deposit?amount=100", http.StatusOK, "Deposit successful"},
		{"/api/wallet/1/withdraw?amount=30", http.StatusOK, "Withdrawal successful"},
		{"/api/wallet/2", http.StatusOK, ""},
		{"/api/wallet/1/transfer/2?amount=50", http.StatusOK, "Transfer successful"},
	}
	for _, step := range steps {
		resp, body := makeRequest(t, http.MethodPost, step.path)
		require.Equal(t, step.status, resp.StatusCode, "%s: %s", step.path, body)
		if step.body != "" {
			assert.Equal(t, step.body, body)
		}
	}

	assert.True(t, decimal.NewFromInt(20).Equal(balanceOf(t, 1)))
	assert.True(t, decimal.NewFromInt(50).Equal(balanceOf(t, 2)))

	// create x2, deposit, withdraw, transfer x2
	assert.Equal(t, 6, countRows(t, "balances_history"))
	assert.Equal(t, 3, countRows(t, "transactions_history"))

	var lastBalances []decimal.Decimal
	require.NoError(t, testApp.DB.Select(&lastBalances, `SELECT balance FROM balances_history ORDER BY id DESC LIMIT 2`))
	require.Len(t, lastBalances, 2)
	assert.True(t, decimal.NewFromInt(50).Equal(lastBalances[0]))
	assert.True(t, decimal.NewFromInt(20).Equal(lastBalances[1]))

	var transfer struct {
		FromUserID   int64           `db:"from_user_id"`
		Amount       decimal.Decimal `db:"amount"`
		TargetUserID int64           `db:"target_user_id"`
	}
	require.NoError(t, testApp.DB.Get(&transfer,
		`SELECT from_user_id, amount, target_user_id FROM transactions_history WHERE type = 'TRANSFER'`))
	assert.Equal(t, int64(1), transfer.FromUserID)
	assert.Equal(t, int64(2), transfer.TargetUserID)
	assert.True(t, decimal.NewFromInt(50).Equal(transfer.Amount))
}

func TestWithdrawFullBalanceIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	makeRequest(t, http.MethodPost, "/api/wallet/1")
	makeRequest(t, http.MethodPost, "/api/wallet/1/deposit?amount=12.3456")

	resp, _ := makeRequest(t, http.MethodPost, "/api/wallet/1/withdraw?amount=12.3456")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, balanceOf(t, 1).IsZero())

	resp, _ = makeRequest(t, http.MethodPost, "/api/wallet/1/withdraw?amount=0.0001")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, util.CodeInsufficientFunds, resp.Header.Get("X-Error-Code"))
}

func TestRejectedTransferLeavesNoTraceIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	makeRequest(t, http.MethodPost, "/api/wallet/1")
	makeRequest(t, http.MethodPost, "/api/wallet/2")
	makeRequest(t, http.MethodPost, "/api/wallet/1/deposit?amount=10")
	historyBefore := countRows(t, "balances_history")

	resp, body := makeRequest(t, http.MethodPost, "/api/wallet/1/transfer/2?amount=10.0001")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "insufficient funds", body)

	resp, body = makeRequest(t, http.MethodPost, "/api/wallet/1/transfer/3?amount=1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "destination wallet not found", body)

	assert.True(t, decimal.NewFromInt(10).Equal(balanceOf(t, 1)))
	assert.True(t, balanceOf(t, 2).IsZero())
	assert.Equal(t, historyBefore, countRows(t, "balances_history"))
	assert.Equal(t, 1, countRows(t, "transactions_history"))
}

func TestDuplicateCreateIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	resp, _ := makeRequest(t, http.MethodPost, "/api/wallet/7")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := makeRequest(t, http.MethodPost, "/api/wallet/7")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, util.CodeWalletAlreadyExists, resp.Header.Get("X-Error-Code"))
	assert.Equal(t, "wallet already exists for user", body)
}

// TestConcurrentTransfersIntegration runs opposing transfers in parallel; the
// ordered row locks must neither deadlock nor lose an update.
func TestConcurrentTransfersIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	for _, p := range []string{"/api/wallet/1", "/api/wallet/2", "/api/wallet/1/deposit?amount=100", "/api/wallet/2/deposit?amount=100"} {
		resp, _ := makeRequest(t, http.MethodPost, p)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	const rounds = 20
	var wg sync.WaitGroup
	statuses := make(chan int, 2*rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		for _, path := range []string{"/api/wallet/1/transfer/2?amount=1", "/api/wallet/2/transfer/1?amount=1"} {
			path := path
			go func() {
				defer wg.Done()
				resp, err := http.Post(testServer.URL+path, "text/plain", nil)
				if err != nil {
					statuses <- 0
					return
				}
				resp.Body.Close()
				statuses <- resp.StatusCode
			}()
		}
	}
	wg.Wait()
	close(statuses)

	for status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}
	total := balanceOf(t, 1).Add(balanceOf(t, 2))
	assert.True(t, decimal.NewFromInt(200).Equal(total))
	assert.True(t, decimal.NewFromInt(100).Equal(balanceOf(t, 1)))
}

// TestLargeAmountsIntegration pushes balances well past 16 integer digits;
// only the fractional scale is limited.
func TestLargeAmountsIntegration(t *testing.T) {
	requireDB(t)
	clearDatabase(t)

	makeRequest(t, http.MethodPost, "/api/wallet/1")
	makeRequest(t, http.MethodPost, "/api/wallet/2")

	for _, amount := range []string{"1e20", "99999999999999999999.5", "99999999999999999999.5"} {
		resp, body := makeRequest(t, http.MethodPost, "/api/wallet/1/deposit?amount="+amount)
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
	}
	want := decimal.RequireFromString("299999999999999999999")
	assert.True(t, want.Equal(balanceOf(t, 1)), "got %s", balanceOf(t, 1))

	resp, body := makeRequest(t, http.MethodPost, "/api/wallet/1/transfer/2?amount=123456789012345678901.2345")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.True(t, decimal.RequireFromString("123456789012345678901.2345").Equal(balanceOf(t, 2)))
	assert.True(t, want.Sub(decimal.RequireFromString("123456789012345678901.2345")).Equal(balanceOf(t, 1)))

	resp, _ = makeRequest(t, http.MethodPost, "/api/wallet/1/deposit?amount=100000000000000000000.00001")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
