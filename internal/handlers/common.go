package handlers

import (
	"strconv"

	"brokerage/internal/middleware"
	"brokerage/internal/models"
	"brokerage/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// extractUserClaims is a helper function to reduce duplication
func extractUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

func requestMeta(c *fiber.Ctx) models.RequestMeta {
	return models.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

// uintParam parses a positive route parameter.
func uintParam(c *fiber.Ctx, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func unauthorized(c *fiber.Ctx) error {
	return response.Unauthorized(c)
}
