package repositories

import (
	"context"
	"errors"

	"brokerage/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateSession    = errors.New("checkout session already recorded")
)

// WalletRepository defines the interface for wallet and ledger operations.
// Locking reads only serialize callers inside ExecuteInTransaction.
type WalletRepository interface {
	// Core wallet operations
	GetOrCreate(ctx context.Context, userID uint, currency string) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetForUpdate(ctx context.Context, userID uint) (*models.Wallet, error)
	UpdateBalance(ctx context.Context, walletID uint, balance decimal.Decimal) error

	// Transaction operations
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	GetTransactionBySession(ctx context.Context, sessionID string, forUpdate bool) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx *models.Transaction) error
	SumTransactions(ctx context.Context, userID uint, txType models.TransactionType, status models.TransactionStatus) (decimal.Decimal, error)
	History(ctx context.Context, userID uint, filter HistoryFilter, limit, offset int) ([]models.Transaction, int64, error)
	ListWallets(ctx context.Context, limit, offset int) ([]models.Wallet, int64, error)

	ExecuteInTransaction(ctx context.Context, fn func(WalletRepository) error) error
}

// HistoryFilter narrows a ledger listing; zero values match everything.
type HistoryFilter struct {
	Type   models.TransactionType
	Status models.TransactionStatus
}
