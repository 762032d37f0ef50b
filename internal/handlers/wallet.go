package handlers

import (
	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/services/wallet"
	"brokerage/internal/utils/pagination"
	"brokerage/internal/utils/response"
	"brokerage/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	walletService wallet.Service
}

func NewWalletHandler(walletService wallet.Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

type amountInput struct {
	Amount decimal.Decimal `json:"amount" validate:"decimal_gt0"`
}

type verifyDepositInput struct {
	SessionID string `json:"session_id" validate:"required"`
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	w, err := h.walletService.GetWallet(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Wallet", w)
}

// GetTransactions lists the caller's ledger, optionally filtered by type and status.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	p := pagination.ParseFromRequest(c)
	filter := repositories.HistoryFilter{
		Type:   models.TransactionType(c.Query("type")),
		Status: models.TransactionStatus(c.Query("status")),
	}
	txs, total, err := h.walletService.History(c.UserContext(), claims.UserID, filter, p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, txs))
}

func (h *WalletHandler) GetLimits(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	limits, err := h.walletService.DepositLimits(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Deposit limits", limits)
}

// Deposit opens a checkout session for an amount in the display currency.
func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	intent, err := h.walletService.CreateDepositIntent(c.UserContext(), claims.UserID, input.Amount)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Checkout session created", intent)
}

// VerifyDeposit is the manual completion path used after the checkout redirect.
func (h *WalletHandler) VerifyDeposit(c *fiber.Ctx) error {
	if _, err := extractUserClaims(c); err != nil {
		return unauthorized(c)
	}

	var input verifyDepositInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	res, err := h.walletService.CompleteDeposit(c.UserContext(), input.SessionID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Deposit verified", res)
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	txn, err := h.walletService.RequestWithdrawal(c.UserContext(), claims.UserID, input.Amount)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Created(c, "Withdrawal requested", txn)
}

// Webhook receives signed processor events. The raw body is required for
// signature verification.
func (h *WalletHandler) Webhook(c *fiber.Ctx) error {
	if err := h.walletService.HandleWebhook(c.UserContext(), c.Body(), c.Get("Stripe-Signature")); err != nil {
		return response.FromError(c, err)
	}
	return c.JSON(fiber.Map{"received": true})
}
