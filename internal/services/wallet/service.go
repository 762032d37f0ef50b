package wallet

import (
	"context"
	"errors"
	"fmt"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/logger"
	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/services/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultLedgerCurrency  = "USD"
	DefaultDisplayCurrency = "AED"
)

var (
	DefaultDepositCap     = decimal.NewFromInt(5000)
	DefaultConversionRate = decimal.RequireFromString("3.66")
	DefaultMinDeposit     = decimal.NewFromInt(1)
)

type service struct {
	repo      repositories.WalletRepository
	profiles  ProfileReader
	documents DocumentLister
	processor payment.Processor
	cache     CacheOperator
	config    WalletConfig
	metrics   MetricsCollector
	logger    *zap.Logger
}

// NewService creates a new wallet service. cache and metrics are optional.
func NewService(
	repo repositories.WalletRepository,
	profiles ProfileReader,
	documents DocumentLister,
	processor payment.Processor,
	cache CacheOperator,
	config WalletConfig,
	metrics MetricsCollector,
	log *zap.Logger,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if profiles == nil || documents == nil {
		panic("kyc readers are required")
	}
	if processor == nil {
		panic("payment processor is required")
	}

	// Set default configuration values if not provided
	if config.DepositCap.IsZero() {
		config.DepositCap = DefaultDepositCap
	}
	if !config.ConversionRate.IsPositive() {
		config.ConversionRate = DefaultConversionRate
	}
	if config.MinDeposit.IsZero() {
		config.MinDeposit = DefaultMinDeposit
	}
	if config.LedgerCurrency == "" {
		config.LedgerCurrency = DefaultLedgerCurrency
	}
	if config.DisplayCurrency == "" {
		config.DisplayCurrency = DefaultDisplayCurrency
	}

	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}

	return &service{
		repo:      repo,
		profiles:  profiles,
		documents: documents,
		processor: processor,
		cache:     cache,
		config:    config,
		metrics:   metrics,
		logger:    logger.OrNop(log).Named("wallet"),
	}
}

// GetWallet returns the user's wallet, creating it on first access.
func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if w := s.cachedWallet(ctx, userID); w != nil {
		return w, nil
	}

	w, err := s.repo.GetOrCreate(ctx, userID, s.config.LedgerCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	s.storeWallet(ctx, w)
	return w, nil
}

func (s *service) History(ctx context.Context, userID uint, filter repositories.HistoryFilter, limit, offset int) ([]models.Transaction, int64, error) {
	return s.repo.History(ctx, userID, filter, limit, offset)
}

// DepositLimits reports the cap position. Cap and Headroom are nil for approved users.
func (s *service) DepositLimits(ctx context.Context, userID uint) (*DepositLimits, error) {
	approved, err := s.IsKYCApproved(ctx, userID)
	if err != nil {
		return nil, err
	}

	w, err := s.repo.GetOrCreate(ctx, userID, s.config.LedgerCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	pending, err := s.repo.SumTransactions(ctx, userID, models.TransactionTypeDeposit, models.TransactionStatusPending)
	if err != nil {
		return nil, err
	}

	limits := &DepositLimits{
		KYCApproved: approved,
		Balance:     w.Balance,
		Pending:     pending,
		Currency:    s.config.LedgerCurrency,
	}
	if !approved {
		capAmt := s.config.DepositCap
		headroom := headroomOf(capAmt, w.Balance.Add(pending))
		limits.Cap = &capAmt
		limits.Headroom = &headroom
	}
	return limits, nil
}

// ListWallets pages through every wallet for administrators.
func (s *service) ListWallets(ctx context.Context, limit, offset int) ([]models.Wallet, int64, error) {
	return s.repo.ListWallets(ctx, limit, offset)
}

// Reconcile checks that the balance equals completed deposits minus completed withdrawals.
func (s *service) Reconcile(ctx context.Context, userID uint) (*Reconciliation, error) {
	w, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, apperrors.ErrWalletNotFound
		}
		return nil, err
	}
	deposits, err := s.repo.SumTransactions(ctx, userID, models.TransactionTypeDeposit, models.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}
	withdrawals, err := s.repo.SumTransactions(ctx, userID, models.TransactionTypeWithdrawal, models.TransactionStatusCompleted)
	if err != nil {
		return nil, err
	}

	expected := deposits.Sub(withdrawals)
	r := &Reconciliation{
		Balance:     w.Balance,
		Deposits:    deposits,
		Withdrawals: withdrawals,
		Expected:    expected,
		Consistent:  w.Balance.Equal(expected),
	}
	if !r.Consistent {
		s.logger.Error("wallet balance does not match ledger",
			zap.Uint("user_id", userID),
			zap.String("balance", w.Balance.String()),
			zap.String("expected", expected.String()))
	}
	return r, nil
}

func headroomOf(capAmt, exposure decimal.Decimal) decimal.Decimal {
	h := capAmt.Sub(exposure)
	if h.IsNegative() {
		return decimal.Zero
	}
	return h
}
