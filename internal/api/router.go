// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"wallet-ledger/internal/api/handler"
)

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// NewRouter sets up and returns a new HTTP router.
func NewRouter(walletHandler *handler.WalletHandler, healthHandler *handler.HealthHandler, logger *slog.Logger, timeout time.Duration) http.Handler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	r := chi.NewRouter()

	// Global middlewares
	r.Use(RequestID)                   // Propagate or generate X-Request-Id
	r.Use(middleware.RealIP)           // Use the real IP address
	r.Use(RequestLogger(logger))       // Log HTTP requests
	r.Use(middleware.Recoverer)        // Recover from panics and return 500
	r.Use(middleware.Timeout(timeout)) // Cancel the request context after timeout

	// Health check endpoint
	r.Get("/health", healthHandler.Check)

	// Wallet API routes
	r.Route("/api/wallet", func(r chi.Router) {
		r.Post("/{userID}", walletHandler.CreateWallet)
		r.Get("/{userID}/balance", walletHandler.GetBalance)
		r.Post("/{userID}/deposit", walletHandler.Deposit)
		r.Post("/{userID}/withdraw", walletHandler.Withdraw)
		r.Post("/{fromUserID}/transfer/{toUserID}", walletHandler.Transfer)
	})

	return r
}
