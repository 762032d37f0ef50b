package models

import "github.com/golang-jwt/jwt/v5"

type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the caller holds the admin role.
func (c *UserClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}

// Principal is the authenticated caller passed explicitly into services.
type Principal struct {
	UserID uint
	Admin  bool
}

// Principal converts the claims into a Principal.
func (c *UserClaims) Principal() Principal {
	return Principal{UserID: c.UserID, Admin: c.IsAdmin()}
}
