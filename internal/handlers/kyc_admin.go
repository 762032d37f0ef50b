package handlers

import (
	"fmt"

	"brokerage/internal/services/kyc"
	"brokerage/internal/services/profile"
	"brokerage/internal/utils/pagination"
	"brokerage/internal/utils/response"
	"brokerage/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// KYCAdminHandler serves the reviewer endpoints.
type KYCAdminHandler struct {
	documents kyc.Service
	profiles  profile.Service
}

func NewKYCAdminHandler(documents kyc.Service, profiles profile.Service) *KYCAdminHandler {
	return &KYCAdminHandler{documents: documents, profiles: profiles}
}

type decisionInput struct {
	Comment string `json:"comment"`
}

type profileReviewInput struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Notes    string `json:"notes"`
}

func (h *KYCAdminHandler) ListPending(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	docs, total, err := h.documents.ListPending(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return response.FromError(c, err)
	}
	p.Total = total
	return c.JSON(pagination.Response(p, docs))
}

func (h *KYCAdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.documents.Stats(c.UserContext())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "KYC statistics", stats)
}

func (h *KYCAdminHandler) Download(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	f, err := h.documents.Download(c.UserContext(), c.Params("id"), claims.Principal())
	if err != nil {
		return response.FromError(c, err)
	}
	c.Set(fiber.HeaderContentType, f.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Send(f.Data)
}

func (h *KYCAdminHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, kyc.DecisionApprove)
}

func (h *KYCAdminHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, kyc.DecisionReject)
}

func (h *KYCAdminHandler) decide(c *fiber.Ctx, decision string) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	var input decisionInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request format")
		}
	}

	doc, err := h.documents.Decide(c.UserContext(), kyc.DecisionRequest{
		DocumentID: c.Params("id"),
		Decision:   decision,
		ReviewerID: claims.UserID,
		Comment:    input.Comment,
		Meta:       requestMeta(c),
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Document "+string(doc.Status), doc)
}

// Verify re-runs scoring and returns the new advisory score.
func (h *KYCAdminHandler) Verify(c *fiber.Ctx) error {
	res, err := h.documents.Verify(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Document scored", res)
}

func (h *KYCAdminHandler) ReviewProfile(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	userID, ok := uintParam(c, "userId")
	if !ok {
		return response.BadRequest(c, "invalid user id")
	}
	var input profileReviewInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return response.FromError(c, err)
	}

	p, err := h.profiles.Review(c.UserContext(), userID, claims.UserID, input.Decision == kyc.DecisionApprove, input.Notes)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile reviewed", p)
}
