package models

// Permission constants
const (
	// Wallet permissions
	PermissionWalletRead  = "wallet:read"
	PermissionWalletWrite = "wallet:write"

	// KYC permissions
	PermissionKYCRead  = "kyc:read"
	PermissionKYCWrite = "kyc:write"

	// Admin permissions
	PermissionReadAdmin   = "admin:read"
	PermissionWriteAdmin  = "admin:write"
	PermissionKYCReview   = "kyc:review"
	PermissionKYCDownload = "kyc:download"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionKYCRead,
			PermissionKYCWrite,
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionKYCReview,
			PermissionKYCDownload,
		}
	case RoleUser:
		return []string{
			PermissionWalletRead,
			PermissionWalletWrite,
			PermissionKYCRead,
			PermissionKYCWrite,
		}
	default:
		return []string{}
	}
}
