package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit     TransactionType = "deposit"
	TransactionTypeWithdrawal  TransactionType = "withdrawal"
	TransactionTypeTradeProfit TransactionType = "trade_profit"
	TransactionTypeTradeLoss   TransactionType = "trade_loss"
	TransactionTypeBonus       TransactionType = "bonus"
	TransactionTypeFee         TransactionType = "fee"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction is a ledger entry. Status moves once from pending to a terminal state.
type Transaction struct {
	ID              string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          uint              `gorm:"index;not null" json:"user_id"`
	WalletID        uint              `gorm:"index;not null" json:"wallet_id"`
	Type            TransactionType   `gorm:"type:varchar(20);not null" json:"type"`
	Amount          decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"amount"`
	Currency        string            `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status          TransactionStatus `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	SessionID       *string           `gorm:"type:varchar(255);uniqueIndex" json:"session_id,omitempty"`
	PaymentIntentID *string           `gorm:"type:varchar(255)" json:"payment_intent_id,omitempty"`
	Description     string            `json:"description"`
	Metadata        JSON              `gorm:"type:jsonb" json:"metadata,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// IsTerminal reports whether the transaction has left pending.
func (t *Transaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}
