package handlers

import (
	"brokerage/internal/services/profile"
	"brokerage/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	service profile.Service
}

func NewProfileHandler(s profile.Service) *ProfileHandler { return &ProfileHandler{service: s} }

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	p, err := h.service.Get(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "KYC profile", p)
}

// Save creates the profile or merges the sent fields into it.
func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	var input profile.Input
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request format")
	}

	res, err := h.service.Save(c.UserContext(), claims.UserID, input)
	if err != nil {
		return response.FromError(c, err)
	}
	if res.Action == profile.ActionCreated {
		return response.Created(c, "Profile created", res.Profile)
	}
	return response.Success(c, "Profile updated", res.Profile)
}

func (h *ProfileHandler) Submit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	p, err := h.service.Submit(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile submitted for review", p)
}

func (h *ProfileHandler) Completion(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	status, err := h.service.CompletionStatus(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile completion", status)
}

func (h *ProfileHandler) Suggestions(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	s, err := h.service.AutoFillSuggestions(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Auto-fill suggestions", s)
}
