// internal/api/handler/wallet.go
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"wallet-ledger/internal/api/types"
	"wallet-ledger/internal/domain"
	"wallet-ledger/internal/service"
	"wallet-ledger/internal/util" // For custom errors
)

// ErrorCodeHeader carries the machine-readable code of a rejected request.
const ErrorCodeHeader = "X-Error-Code"

// WalletHandler handles HTTP requests related to wallet operations.
type WalletHandler struct {
	service            service.WalletService
	balanceHistory     service.BalanceHistoryService
	transactionHistory service.TransactionHistoryService
	logger             *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(
	svc service.WalletService,
	balanceHistory service.BalanceHistoryService,
	transactionHistory service.TransactionHistoryService,
	logger *slog.Logger,
) *WalletHandler {
	return &WalletHandler{
		service:            svc,
		balanceHistory:     balanceHistory,
		transactionHistory: transactionHistory,
		logger:             logger,
	}
}

// Helper function to send JSON responses.
func (h *WalletHandler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(message))
}

// Domain errors become 400 with their message and code; anything else is
// logged and hidden behind a generic 500.
func (h *WalletHandler) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	if domainErr, code, ok := util.Classify(err); ok {
		w.Header().Set(ErrorCodeHeader, code)
		respondWithText(w, http.StatusBadRequest, domainErr.Error())
		return
	}

	h.logger.ErrorContext(r.Context(), "Unhandled service error",
		"error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	respondWithText(w, http.StatusInternalServerError, "Internal server error")
}

func parseUserID(r *http.Request, param string) (int64, error) {
	userID, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return 0, util.ErrInvalidUserID
	}
	return userID, nil
}

func parseAmount(r *http.Request) (decimal.Decimal, error) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		return decimal.Zero, util.ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil || !domain.ValidAmount(amount) {
		return decimal.Zero, util.ErrInvalidAmount
	}
	return amount, nil
}

// History is written after the wallet change has committed. A failure here
// cannot undo the change, so it is logged and the request still succeeds.
func (h *WalletHandler) recordBalance(ctx context.Context, wallet *domain.Wallet) {
	if err := h.balanceHistory.Record(ctx, wallet); err != nil {
		h.logger.ErrorContext(ctx, "Failed to record balance history",
			"user_id", wallet.UserID, "error", err, "request_id", middleware.GetReqID(ctx))
	}
}

func (h *WalletHandler) recordTransaction(ctx context.Context, fromUserID int64, amount decimal.Decimal, txType domain.TransactionType, targetUserID *int64) {
	if err := h.transactionHistory.Record(ctx, fromUserID, amount, txType, targetUserID); err != nil {
		h.logger.ErrorContext(ctx, "Failed to record transaction history",
			"from_user_id", fromUserID, "type", string(txType), "error", err, "request_id", middleware.GetReqID(ctx))
	}
}

// CreateWallet handles the create wallet request.
// POST /api/wallet/{userID}
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	wallet, err := h.service.CreateWallet(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.recordBalance(r.Context(), wallet)

	h.respondWithJSON(w, http.StatusOK, types.NewWalletResponse(wallet))
}

// GetBalance handles the get wallet balance request.
// GET /api/wallet/{userID}/balance
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, json.Number(balance.String()))
}

// Deposit handles the deposit money request.
// POST /api/wallet/{userID}/deposit?amount=
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	amount, err := parseAmount(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	wallet, err := h.service.Deposit(r.Context(), userID, amount)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.recordBalance(r.Context(), wallet)
	h.recordTransaction(r.Context(), userID, amount, domain.TransactionTypeDeposit, nil)

	respondWithText(w, http.StatusOK, types.MessageDeposit)
}

// Withdraw handles the withdraw money request.
// POST /api/wallet/{userID}/withdraw?amount=
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r, "userID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	amount, err := parseAmount(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	wallet, err := h.service.Withdraw(r.Context(), userID, amount)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.recordBalance(r.Context(), wallet)
	h.recordTransaction(r.Context(), userID, amount, domain.TransactionTypeWithdrawal, nil)

	respondWithText(w, http.StatusOK, types.MessageWithdrawal)
}

// Transfer handles the transfer money request.
// POST /api/wallet/{fromUserID}/transfer/{toUserID}?amount=
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	fromUserID, err := parseUserID(r, "fromUserID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	toUserID, err := parseUserID(r, "toUserID")
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	amount, err := parseAmount(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	fromWallet, toWallet, err := h.service.Transfer(r.Context(), fromUserID, toUserID, amount)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.recordBalance(r.Context(), fromWallet)
	h.recordBalance(r.Context(), toWallet)
	h.recordTransaction(r.Context(), fromUserID, amount, domain.TransactionTypeTransfer, &toUserID)

	respondWithText(w, http.StatusOK, types.MessageTransfer)
}
