// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Domain errors. They describe bad requests, never system faults.
var (
	ErrWalletAlreadyExists = errors.New("wallet already exists for user")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidAmount       = errors.New("amount must be a positive decimal with at most 4 fractional digits")
	ErrInvalidUserID       = errors.New("user id must be an integer")

	// Transfer reports which side was missing; both still match ErrWalletNotFound.
	ErrSourceWalletNotFound      = fmt.Errorf("source %w", ErrWalletNotFound)
	ErrDestinationWalletNotFound = fmt.Errorf("destination %w", ErrWalletNotFound)
)

// Error codes sent in the X-Error-Code response header.
const (
	CodeWalletAlreadyExists = "WALLET_ALREADY_EXISTS"
	CodeWalletNotFound      = "WALLET_NOT_FOUND"
	CodeInsufficientFunds   = "INSUFFICIENT_FUNDS"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeInvalidUserID       = "INVALID_USER_ID"
)

// Most specific first: the side-aware not-found errors must win over the
// generic one so their message reaches the client.
var domainErrors = []struct {
	err  error
	code string
}{
	{ErrSourceWalletNotFound, CodeWalletNotFound},
	{ErrDestinationWalletNotFound, CodeWalletNotFound},
	{ErrWalletNotFound, CodeWalletNotFound},
	{ErrWalletAlreadyExists, CodeWalletAlreadyExists},
	{ErrInsufficientFunds, CodeInsufficientFunds},
	{ErrInvalidAmount, CodeInvalidAmount},
	{ErrInvalidUserID, CodeInvalidUserID},
}

// Classify finds the domain error behind err. It returns the sentinel (whose
// message is safe to show to a client) and its code, or ok=false for errors
// that should surface as internal faults.
func Classify(err error) (domainErr error, code string, ok bool) {
	if err == nil {
		return nil, "", false
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return d.err, d.code, true
		}
	}
	return nil, "", false
}
