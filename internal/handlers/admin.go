package handlers

import (
	"brokerage/internal/services/wallet"
	"brokerage/internal/utils/pagination"
	"brokerage/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves ledger oversight endpoints.
type AdminHandler struct {
	wallets wallet.Service
}

func NewAdminHandler(wallets wallet.Service) *AdminHandler {
	return &AdminHandler{wallets: wallets}
}

// GetAllWallets retrieves all wallets in a paginated manner
func (h *AdminHandler) GetAllWallets(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	wallets, total, err := h.wallets.ListWallets(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, wallets))
}

// Reconcile compares a user's balance with their completed ledger entries.
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	userID, ok := uintParam(c, "userId")
	if !ok {
		return response.BadRequest(c, "invalid user id")
	}
	rec, err := h.wallets.Reconcile(c.UserContext(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Reconciliation", rec)
}
