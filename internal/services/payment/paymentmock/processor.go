// Package paymentmock provides a testify mock of payment.Processor.
package paymentmock

import (
	"context"

	"brokerage/internal/services/payment"

	"github.com/stretchr/testify/mock"
)

type Processor struct {
	mock.Mock
}

func (m *Processor) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	if s, ok := args.Get(0).(*payment.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Processor) GetSession(ctx context.Context, sessionID string) (*payment.Session, error) {
	args := m.Called(ctx, sessionID)
	if s, ok := args.Get(0).(*payment.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Processor) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	if e, ok := args.Get(0).(*payment.Event); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
