// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization middleware for the fiber web framework.
package middleware

import (
	"errors"
	"strings"

	"brokerage/internal/logger"
	"brokerage/internal/models"
	"brokerage/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// AuthMiddleware validates HS256 bearer tokens and stores the claims on the request.
// Tokens are issued by the identity service; this service only verifies them.
type AuthMiddleware struct {
	secret []byte
	logger *zap.Logger
}

func NewAuthMiddleware(secret string, log *zap.Logger) *AuthMiddleware {
	if secret == "" {
		panic("jwt secret is required")
	}
	return &AuthMiddleware{
		secret: []byte(secret),
		logger: logger.OrNop(log).Named("auth"),
	}
}

// Handler checks for:
// - Presence of Authorization header with Bearer token
// - Valid HS256 signature
// - Token expiration
// - A non-zero user id
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
	}

	claims, err := m.Parse(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		m.logger.Debug("token rejected", zap.String("ip", c.IP()), zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return response.Error(c, fiber.StatusUnauthorized, "session expired")
		}
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(claimsKey, claims)
	c.Locals("userID", claims.UserID)
	return c.Next()
}

// Parse verifies tokenString and returns its claims. Tokens without an explicit
// permission list get the defaults for their role.
func (m *AuthMiddleware) Parse(tokenString string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.UserID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if len(claims.Permissions) == 0 {
		claims.Permissions = models.GetDefaultPermissions(claims.Role)
	}
	return claims, nil
}

// Claims returns the claims stored by Handler, or nil.
func Claims(c *fiber.Ctx) *models.UserClaims {
	claims, _ := c.Locals(claimsKey).(*models.UserClaims)
	return claims
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims := Claims(c)
	if claims == nil {
		return response.Unauthorized(c)
	}
	if !claims.IsAdmin() {
		return response.Forbidden(c)
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
// Admins hold every permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := Claims(c)
		if claims == nil {
			return response.Unauthorized(c)
		}
		if claims.IsAdmin() || claims.HasPermission(permission) {
			return c.Next()
		}
		return response.Forbidden(c)
	}
}
