package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"brokerage/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func sign(t *testing.T, secret string, claims models.UserClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func userClaims(id uint, role string, ttl time.Duration) models.UserClaims {
	return models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))},
		UserID:           id,
		Role:             role,
		Permissions:      models.GetDefaultPermissions(role),
	}
}

func newApp() *fiber.App {
	auth := NewAuthMiddleware(testSecret, nil)
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/me", auth.Handler, ok)
	app.Get("/admin", auth.Handler, AdminAuthMiddleware, ok)
	app.Get("/review", auth.Handler, HasPermission(models.PermissionKYCReview), ok)
	return app
}

func do(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app := newApp()
	user := sign(t, testSecret, userClaims(1, models.RoleUser, time.Hour))
	admin := sign(t, testSecret, userClaims(2, models.RoleAdmin, time.Hour))

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"missing header", "/me", "", fiber.StatusUnauthorized},
		{"valid user", "/me", user, fiber.StatusOK},
		{"wrong secret", "/me", sign(t, "other", userClaims(1, models.RoleUser, time.Hour)), fiber.StatusUnauthorized},
		{"expired", "/me", sign(t, testSecret, userClaims(1, models.RoleUser, -time.Minute)), fiber.StatusUnauthorized},
		{"no user id", "/me", sign(t, testSecret, userClaims(0, models.RoleUser, time.Hour)), fiber.StatusUnauthorized},
		{"user on admin route", "/admin", user, fiber.StatusForbidden},
		{"admin on admin route", "/admin", admin, fiber.StatusOK},
		{"user lacks review permission", "/review", user, fiber.StatusForbidden},
		{"admin has every permission", "/review", admin, fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, app, tt.path, tt.token))
		})
	}
}

func TestAuthMiddleware_RejectsNonBearer(t *testing.T) {
	app := newApp()
	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_RejectsOtherAlgorithms(t *testing.T) {
	auth := NewAuthMiddleware(testSecret, nil)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, userClaims(1, models.RoleUser, time.Hour)).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = auth.Parse(token)
	assert.Error(t, err)
}

func TestParse_RoleDefaultsWhenPermissionsMissing(t *testing.T) {
	auth := NewAuthMiddleware(testSecret, nil)
	claims := userClaims(5, models.RoleUser, time.Hour)
	claims.Permissions = nil

	parsed, err := auth.Parse(sign(t, testSecret, claims))
	require.NoError(t, err)
	assert.ElementsMatch(t, models.GetDefaultPermissions(models.RoleUser), parsed.Permissions)
	assert.True(t, parsed.HasPermission(models.PermissionKYCRead))
	assert.False(t, parsed.HasPermission(models.PermissionKYCReview))

	scoped := userClaims(6, models.RoleUser, time.Hour)
	scoped.Permissions = []string{models.PermissionWalletRead}
	parsed, err = auth.Parse(sign(t, testSecret, scoped))
	require.NoError(t, err)
	assert.Equal(t, []string{models.PermissionWalletRead}, parsed.Permissions, "explicit permissions are kept")
}
