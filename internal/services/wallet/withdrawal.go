package wallet

import (
	"context"
	"fmt"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"
	"brokerage/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequestWithdrawal records a pending withdrawal for an approved user.
// Settlement happens outside the ledger, so the balance is not debited here.
func (s *service) RequestWithdrawal(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}
	if err := s.AssertWithdrawalAllowed(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetOrCreate(ctx, userID, s.config.LedgerCurrency); err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	var txn *models.Transaction
	err := s.repo.ExecuteInTransaction(ctx, func(repo repositories.WalletRepository) error {
		w, err := repo.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		pending, err := repo.SumTransactions(ctx, userID, models.TransactionTypeWithdrawal, models.TransactionStatusPending)
		if err != nil {
			return err
		}
		if pending.Add(amount).GreaterThan(w.Balance) {
			return apperrors.ErrInsufficientBalance.WithDetails(map[string]interface{}{
				"available": w.Balance.Sub(pending).StringFixed(2),
			})
		}

		txn = &models.Transaction{
			UserID:      userID,
			WalletID:    w.ID,
			Type:        models.TransactionTypeWithdrawal,
			Amount:      amount.Round(2),
			Currency:    s.config.LedgerCurrency,
			Status:      models.TransactionStatusPending,
			Description: fmt.Sprintf("Withdrawal of %s %s", amount.StringFixed(2), s.config.LedgerCurrency),
		}
		return repo.CreateTransaction(ctx, txn)
	})
	if err != nil {
		return nil, s.mapLedgerError(err, "")
	}

	s.logger.Info("withdrawal requested",
		zap.Uint("user_id", userID),
		zap.String("transaction_id", txn.ID),
		zap.String("amount", txn.Amount.String()))
	return txn, nil
}
