package errors

import "net/http"

var (
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
		Status:  http.StatusBadRequest,
	}
	ErrBelowMinimumDeposit = &DomainError{
		Code:    "BELOW_MINIMUM_DEPOSIT",
		Message: "deposit is below the minimum amount",
		Status:  http.StatusBadRequest,
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
		Status:  http.StatusInternalServerError,
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found for session",
		Status:  http.StatusNotFound,
	}
	ErrDepositCapExceeded = &DomainError{
		Code:    "DEPOSIT_CAP_EXCEEDED",
		Message: "deposit exceeds the limit for accounts without approved KYC",
		Status:  http.StatusBadRequest,
	}
	ErrTransactionNotPending = &DomainError{
		Code:    "TRANSACTION_NOT_PENDING",
		Message: "transaction cannot be completed from its current state",
		Status:  http.StatusBadRequest,
	}
	ErrPaymentNotConfirmed = &DomainError{
		Code:    "PAYMENT_NOT_CONFIRMED",
		Message: "payment has not been confirmed by the processor",
		Status:  http.StatusBadRequest,
	}
	ErrPaymentProcessor = &DomainError{
		Code:    "PAYMENT_PROCESSOR_ERROR",
		Message: "payment processor request failed",
		Status:  http.StatusBadGateway,
	}
	ErrWithdrawalNotAllowed = &DomainError{
		Code:    "KYC_REQUIRED",
		Message: "withdrawals require an approved KYC verification",
		Status:  http.StatusForbidden,
	}
	ErrInvalidWebhook = &DomainError{
		Code:    "INVALID_WEBHOOK",
		Message: "webhook signature verification failed",
		Status:  http.StatusBadRequest,
	}
)
