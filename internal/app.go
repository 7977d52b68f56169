// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "wallet-ledger/internal/api"
	"wallet-ledger/internal/api/handler"
	"wallet-ledger/internal/config"
	"wallet-ledger/internal/migrations"
	"wallet-ledger/internal/repository"
	"wallet-ledger/internal/repository/postgres"
	"wallet-ledger/internal/service"
	"wallet-ledger/internal/util"
	"wallet-ledger/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	WalletRepository             repository.WalletRepository
	BalanceHistoryRepository     repository.BalanceHistoryRepository
	TransactionHistoryRepository repository.TransactionHistoryRepository

	// Services
	WalletService             service.WalletService
	BalanceHistoryService     service.BalanceHistoryService
	TransactionHistoryService service.TransactionHistoryService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel, cfg.LogFormat)
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(ctx, app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Apply schema migrations
	if cfg.MigrateOnStart {
		version, err := migrations.Up(app.DB.DB)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		app.Logger.Info("Database schema is up to date.", "version", version)
	}

	// 5. Initialize Repositories
	app.WalletRepository = postgres.NewWalletRepository()
	app.BalanceHistoryRepository = postgres.NewBalanceHistoryRepository()
	app.TransactionHistoryRepository = postgres.NewTransactionHistoryRepository()
	app.Logger.Info("Repositories initialized.")

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.WalletService = service.NewWalletService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.WalletRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
		app.Logger,
	)
	app.BalanceHistoryService = service.NewBalanceHistoryService(app.DB, app.BalanceHistoryRepository, app.Logger)
	app.TransactionHistoryService = service.NewTransactionHistoryService(app.DB, app.TransactionHistoryRepository, app.Logger)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	walletHandler := handler.NewWalletHandler(app.WalletService, app.BalanceHistoryService, app.TransactionHistoryService, app.Logger)
	healthHandler := handler.NewHealthHandler(app.DB, app.Logger)
	app.HTTPHandler = router.NewRouter(walletHandler, healthHandler, app.Logger, cfg.RequestTimeout)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
