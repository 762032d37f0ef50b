// Package payment wraps the external payment processor behind a small interface
// so the wallet ledger can be exercised without network access.
package payment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Webhook event types the ledger reacts to.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentSucceeded  = "payment_intent.succeeded"
	EventPaymentFailed     = "payment_intent.payment_failed"
)

// Processor is the checkout-session abstraction over the payment provider.
type Processor interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// CheckoutRequest describes a one-off card payment for a deposit.
type CheckoutRequest struct {
	Amount      decimal.Decimal
	Currency    string
	ProductName string
	Description string
	SuccessURL  string
	CancelURL   string
	ReferenceID string
	Metadata    map[string]string
}

// Session is the provider-neutral view of a checkout session.
type Session struct {
	ID              string
	URL             string
	Paid            bool
	PaymentIntentID string
	AmountTotal     int64
	Metadata        map[string]string
}

// Event is a verified webhook delivery.
type Event struct {
	ID              string
	Type            string
	SessionID       string
	PaymentIntentID string
	Metadata        map[string]string
}

// ToMinorUnits converts an amount to cents, rounding half up.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
