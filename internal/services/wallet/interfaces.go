package wallet

import (
	"context"

	"brokerage/internal/models"
	"brokerage/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service defines the main wallet service interface
type Service interface {
	// Core wallet operations
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	History(ctx context.Context, userID uint, filter repositories.HistoryFilter, limit, offset int) ([]models.Transaction, int64, error)
	DepositLimits(ctx context.Context, userID uint) (*DepositLimits, error)

	// Deposits
	CreateDepositIntent(ctx context.Context, userID uint, displayAmount decimal.Decimal) (*DepositIntent, error)
	CompleteDeposit(ctx context.Context, sessionID string) (*DepositResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// KYC gate
	IsKYCApproved(ctx context.Context, userID uint) (bool, error)
	AssertWithdrawalAllowed(ctx context.Context, userID uint) error
	RequestWithdrawal(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Transaction, error)

	// Admin
	ListWallets(ctx context.Context, limit, offset int) ([]models.Wallet, int64, error)
	Reconcile(ctx context.Context, userID uint) (*Reconciliation, error)
}

// ProfileReader is the slice of the profile store the KYC gate needs.
type ProfileReader interface {
	GetByUserID(ctx context.Context, userID uint) (*models.KYCProfile, error)
}

// DocumentLister is the slice of the document store the KYC gate needs.
type DocumentLister interface {
	ListByUser(ctx context.Context, userID uint) ([]models.KYCDocument, error)
}

// CacheOperator defines the caching operations the ledger relies on.
// Cache failures are logged and never fail a request.
type CacheOperator interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
