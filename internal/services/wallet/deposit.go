package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/services/payment"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Convert turns a display-currency amount into ledger currency, rounded to cents.
func (s *service) Convert(displayAmount decimal.Decimal) decimal.Decimal {
	return displayAmount.Div(s.config.ConversionRate).Round(2)
}

func (s *service) capExceeded(capAmt, exposure decimal.Decimal) *apperrors.DomainError {
	return apperrors.ErrDepositCapExceeded.
		WithMessage("deposit would exceed the %s %s limit for accounts without approved KYC", capAmt.StringFixed(2), s.config.LedgerCurrency).
		WithDetails(map[string]interface{}{
			"cap":      capAmt.StringFixed(2),
			"headroom": headroomOf(capAmt, exposure).StringFixed(2),
			"currency": s.config.LedgerCurrency,
		})
}

// CreateDepositIntent records a pending deposit and opens a checkout session for it.
// A cap refusal leaves no transaction and opens no session.
func (s *service) CreateDepositIntent(ctx context.Context, userID uint, displayAmount decimal.Decimal) (*DepositIntent, error) {
	if !displayAmount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	amount := s.Convert(displayAmount)
	if amount.LessThan(s.config.MinDeposit) {
		return nil, apperrors.ErrBelowMinimumDeposit.WithDetails(map[string]interface{}{
			"minimum":  s.config.MinDeposit.StringFixed(2),
			"currency": s.config.LedgerCurrency,
		})
	}

	w, err := s.repo.GetOrCreate(ctx, userID, s.config.LedgerCurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	approved, err := s.IsKYCApproved(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !approved {
		pending, err := s.repo.SumTransactions(ctx, userID, models.TransactionTypeDeposit, models.TransactionStatusPending)
		if err != nil {
			return nil, err
		}
		exposure := w.Balance.Add(pending)
		if exposure.Add(amount).GreaterThan(s.config.DepositCap) {
			s.metrics.IncCapRejection(StageIntent)
			s.logger.Info("deposit intent refused by cap",
				zap.Uint("user_id", userID),
				zap.String("amount", amount.String()),
				zap.String("exposure", exposure.String()))
			return nil, s.capExceeded(s.config.DepositCap, exposure)
		}
	}

	txn := &models.Transaction{
		UserID:   userID,
		WalletID: w.ID,
		Type:     models.TransactionTypeDeposit,
		Amount:   amount,
		Currency: s.config.LedgerCurrency,
		Status:   models.TransactionStatusPending,
		Description: fmt.Sprintf("Deposit of %s %s (%s %s)",
			displayAmount.StringFixed(2), s.config.DisplayCurrency, amount.StringFixed(2), s.config.LedgerCurrency),
		Metadata: models.JSON{
			"amount_display":   displayAmount.StringFixed(2),
			"display_currency": s.config.DisplayCurrency,
			"conversion_rate":  s.config.ConversionRate.String(),
		},
	}
	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, err
	}

	sess, err := s.processor.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		Amount:      amount,
		Currency:    s.config.LedgerCurrency,
		ProductName: "Wallet deposit",
		Description: txn.Description,
		SuccessURL:  s.config.SuccessURL,
		CancelURL:   s.config.CancelURL,
		ReferenceID: txn.ID,
		Metadata: map[string]string{
			"userId":        fmt.Sprint(userID),
			"transactionId": txn.ID,
			"amountDisplay": displayAmount.StringFixed(2),
			"amountLedger":  amount.StringFixed(2),
		},
	})
	if err != nil {
		s.logger.Error("checkout session creation failed",
			zap.Uint("user_id", userID),
			zap.String("transaction_id", txn.ID),
			zap.Error(err))
		s.failTransaction(ctx, s.repo, txn, "checkout_session_failed")
		return nil, apperrors.ErrPaymentProcessor
	}

	txn.SessionID = &sess.ID
	if err := s.repo.UpdateTransaction(ctx, txn); err != nil {
		// an unlinked pending deposit could be paid but never matched
		s.logger.Error("failed to link checkout session",
			zap.Uint("user_id", userID),
			zap.String("transaction_id", txn.ID),
			zap.String("session_id", sess.ID),
			zap.Error(err))
		s.failTransaction(ctx, s.repo, txn, "session_link_failed")
		return nil, err
	}

	return &DepositIntent{
		SessionID:       sess.ID,
		URL:             sess.URL,
		AmountConverted: amount,
		AmountDisplay:   displayAmount,
		TransactionID:   txn.ID,
		Currency:        s.config.LedgerCurrency,
	}, nil
}

// CompleteDeposit finalizes the deposit behind sessionID at most once.
// The transaction and wallet rows stay locked from the status check to the credit.
func (s *service) CompleteDeposit(ctx context.Context, sessionID string) (*DepositResult, error) {
	if sessionID == "" {
		return nil, apperrors.Validation("SESSION_REQUIRED", "session id is required")
	}

	// The approval predicate reads other tables, so it is resolved before the
	// ledger lock is taken. Approval never lowers the cap.
	owner, err := s.repo.GetTransactionBySession(ctx, sessionID, false)
	if err != nil {
		return nil, s.mapLedgerError(err, sessionID)
	}
	approved, err := s.IsKYCApproved(ctx, owner.UserID)
	if err != nil {
		return nil, err
	}

	var (
		result  *DepositResult
		failure error
	)
	err = s.repo.ExecuteInTransaction(ctx, func(repo repositories.WalletRepository) error {
		txn, err := repo.GetTransactionBySession(ctx, sessionID, true)
		if err != nil {
			return err
		}

		if txn.Status == models.TransactionStatusCompleted {
			w, err := repo.GetByUserID(ctx, txn.UserID)
			if err != nil {
				return err
			}
			result = &DepositResult{Success: true, TransactionID: txn.ID, Amount: txn.Amount, Balance: w.Balance, AlreadyCompleted: true}
			return nil
		}
		if txn.Status != models.TransactionStatusPending {
			failure = apperrors.ErrTransactionNotPending.WithDetails(map[string]interface{}{"status": txn.Status})
			return nil
		}

		sess, err := s.processor.GetSession(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrPaymentProcessor, err)
		}
		if !sess.Paid {
			s.failTransaction(ctx, repo, txn, "payment_not_confirmed")
			failure = apperrors.ErrPaymentNotConfirmed
			return nil
		}

		w, err := repo.GetForUpdate(ctx, txn.UserID)
		if err != nil {
			return err
		}

		newBalance := w.Balance.Add(txn.Amount)
		if !approved && newBalance.GreaterThan(s.config.DepositCap) {
			s.metrics.IncCapRejection(StageCompletion)
			s.failTransaction(ctx, repo, txn, "deposit_cap_exceeded")
			failure = s.capExceeded(s.config.DepositCap, w.Balance)
			return nil
		}

		now := time.Now()
		txn.Status = models.TransactionStatusCompleted
		txn.CompletedAt = &now
		if sess.PaymentIntentID != "" {
			txn.PaymentIntentID = &sess.PaymentIntentID
		}
		if err := repo.UpdateTransaction(ctx, txn); err != nil {
			return err
		}
		if err := repo.UpdateBalance(ctx, w.ID, newBalance); err != nil {
			return err
		}

		result = &DepositResult{Success: true, TransactionID: txn.ID, Amount: txn.Amount, Balance: newBalance}
		return nil
	})
	if err != nil {
		s.metrics.IncDeposit(ResultFailed)
		return nil, s.mapLedgerError(err, sessionID)
	}
	if failure != nil {
		s.metrics.IncDeposit(ResultFailed)
		s.invalidateWallet(ctx, owner.UserID)
		return nil, failure
	}

	if result.AlreadyCompleted {
		s.metrics.IncDeposit(ResultNoop)
		return result, nil
	}

	s.metrics.IncDeposit(ResultCompleted)
	s.invalidateWallet(ctx, owner.UserID)
	s.logger.Info("deposit completed",
		zap.Uint("user_id", owner.UserID),
		zap.String("transaction_id", result.TransactionID),
		zap.String("amount", result.Amount.String()))
	return result, nil
}

// HandleWebhook verifies and dispatches a processor event. Business refusals are
// acknowledged so the provider stops redelivering; integrity failures are returned.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.processor.ParseWebhook(payload, signature)
	if err != nil {
		s.logger.Warn("webhook rejected", zap.Error(err))
		return apperrors.ErrInvalidWebhook
	}

	switch event.Type {
	case payment.EventCheckoutCompleted:
		_, err := s.CompleteDeposit(ctx, event.SessionID)
		if err == nil {
			return nil
		}
		if de, ok := apperrors.As(err); ok && de.Status < 500 && !errors.Is(err, apperrors.ErrTransactionNotFound) {
			s.logger.Warn("webhook completion refused", zap.String("session_id", event.SessionID), zap.Error(err))
			return nil
		}
		s.logger.Error("webhook completion failed", zap.String("session_id", event.SessionID), zap.Error(err))
		return err

	case payment.EventPaymentSucceeded:
		s.logger.Info("payment intent succeeded", zap.String("payment_intent", event.PaymentIntentID))

	case payment.EventPaymentFailed:
		txID := event.Metadata["transactionId"]
		if txID == "" {
			s.logger.Warn("payment failure without transaction reference", zap.String("payment_intent", event.PaymentIntentID))
			return nil
		}
		txn, err := s.repo.GetTransactionByID(ctx, txID)
		if err != nil {
			return s.mapLedgerError(err, "")
		}
		if txn.Status == models.TransactionStatusPending {
			s.failTransaction(ctx, s.repo, txn, "payment_failed")
		}

	default:
		s.logger.Debug("unhandled webhook event", zap.String("type", event.Type))
	}
	return nil
}

// failTransaction moves a pending transaction to failed, recording why.
func (s *service) failTransaction(ctx context.Context, repo repositories.WalletRepository, txn *models.Transaction, reason string) {
	txn.Status = models.TransactionStatusFailed
	if txn.Metadata == nil {
		txn.Metadata = models.JSON{}
	}
	txn.Metadata["failure_reason"] = reason
	if err := repo.UpdateTransaction(ctx, txn); err != nil {
		s.logger.Error("failed to mark transaction failed",
			zap.String("transaction_id", txn.ID),
			zap.String("reason", reason),
			zap.Error(err))
	}
}

func (s *service) mapLedgerError(err error, sessionID string) error {
	switch {
	case errors.Is(err, repositories.ErrTransactionNotFound):
		s.logger.Error("no transaction for session", zap.String("session_id", sessionID))
		return apperrors.ErrTransactionNotFound
	case errors.Is(err, repositories.ErrWalletNotFound):
		s.logger.Error("wallet missing during completion", zap.String("session_id", sessionID))
		return apperrors.ErrWalletNotFound
	}
	return err
}
