package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletConfig holds configuration for ledger operations
type WalletConfig struct {
	DepositCap      decimal.Decimal
	ConversionRate  decimal.Decimal
	MinDeposit      decimal.Decimal
	DisplayCurrency string
	LedgerCurrency  string
	SuccessURL      string
	CancelURL       string
	CacheTTL        time.Duration
}

// DepositIntent is returned to the client to redirect into checkout.
type DepositIntent struct {
	SessionID       string          `json:"sessionId"`
	URL             string          `json:"url"`
	AmountConverted decimal.Decimal `json:"amountConverted"`
	AmountDisplay   decimal.Decimal `json:"amountDisplay"`
	TransactionID   string          `json:"transactionId"`
	Currency        string          `json:"currency"`
}

// DepositResult reports a completion. AlreadyCompleted marks a repeated signal.
type DepositResult struct {
	Success          bool            `json:"success"`
	TransactionID    string          `json:"transactionId"`
	Amount           decimal.Decimal `json:"amount"`
	Balance          decimal.Decimal `json:"balance"`
	AlreadyCompleted bool            `json:"alreadyCompleted"`
}

// DepositLimits summarizes the cap position of a user.
type DepositLimits struct {
	KYCApproved bool             `json:"kycApproved"`
	Cap         *decimal.Decimal `json:"cap"`
	Balance     decimal.Decimal  `json:"balance"`
	Pending     decimal.Decimal  `json:"pending"`
	Headroom    *decimal.Decimal `json:"headroom"`
	Currency    string           `json:"currency"`
}

// Reconciliation compares the stored balance with the completed ledger.
type Reconciliation struct {
	Balance     decimal.Decimal `json:"balance"`
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	Expected    decimal.Decimal `json:"expected"`
	Consistent  bool            `json:"consistent"`
}

// MetricsCollector defines the interface for collecting ledger metrics
type MetricsCollector interface {
	IncDeposit(result string)
	IncCapRejection(stage string)
}

// Deposit results and cap stages used as metric labels.
const (
	ResultCompleted = "completed"
	ResultFailed    = "failed"
	ResultNoop      = "noop"

	StageIntent     = "intent"
	StageCompletion = "completion"
)
