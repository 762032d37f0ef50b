// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"net/http"

	"brokerage/internal/handlers"
	"brokerage/internal/middleware"
	"brokerage/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth     *middleware.AuthMiddleware
	KYC      *handlers.KYCHandler
	KYCAdmin *handlers.KYCAdminHandler
	Profile  *handlers.ProfileHandler
	Wallet   *handlers.WalletHandler
	Admin    *handlers.AdminHandler
	Health   *handlers.HealthHandler
	Metrics  http.Handler
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, h Handlers) {
	app.Get("/health", h.Health.HealthCheck)
	if h.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(h.Metrics))
	}

	api := app.Group("/api")
	api.Get("/health", h.Health.HealthCheck)

	// Signed by the processor, not by a user token
	api.Post("/webhooks/stripe", h.Wallet.Webhook)

	authenticated := api.Group("", h.Auth.Handler)

	// KYC document routes
	kyc := authenticated.Group("/kyc")
	kyc.Post("/upload", middleware.HasPermission(models.PermissionKYCWrite), h.KYC.Upload)
	kyc.Post("/upload/back", middleware.HasPermission(models.PermissionKYCWrite), h.KYC.UploadBack)
	kyc.Get("/status", middleware.HasPermission(models.PermissionKYCRead), h.KYC.GetStatus)
	kyc.Get("/documents/:id", middleware.HasPermission(models.PermissionKYCRead), h.KYC.GetDocument)

	// KYC profile routes
	kyc.Get("/profile", middleware.HasPermission(models.PermissionKYCRead), h.Profile.Get)
	kyc.Put("/profile", middleware.HasPermission(models.PermissionKYCWrite), h.Profile.Save)
	kyc.Post("/profile/submit", middleware.HasPermission(models.PermissionKYCWrite), h.Profile.Submit)
	kyc.Get("/profile/completion", middleware.HasPermission(models.PermissionKYCRead), h.Profile.Completion)
	kyc.Get("/profile/suggestions", middleware.HasPermission(models.PermissionKYCRead), h.Profile.Suggestions)

	// KYC reviewer routes
	review := kyc.Group("/admin", middleware.AdminAuthMiddleware)
	review.Get("/pending", middleware.HasPermission(models.PermissionKYCReview), h.KYCAdmin.ListPending)
	review.Get("/stats", middleware.HasPermission(models.PermissionKYCReview), h.KYCAdmin.Stats)
	review.Get("/:id/download", middleware.HasPermission(models.PermissionKYCDownload), h.KYCAdmin.Download)
	review.Post("/:id/approve", middleware.HasPermission(models.PermissionKYCReview), h.KYCAdmin.Approve)
	review.Post("/:id/reject", middleware.HasPermission(models.PermissionKYCReview), h.KYCAdmin.Reject)
	review.Post("/:id/verify", middleware.HasPermission(models.PermissionKYCReview), h.KYCAdmin.Verify)
	review.Post("/profiles/:userId/review", middleware.HasPermission(models.PermissionKYCReview), h.KYCAdmin.ReviewProfile)

	// Wallet routes
	wallet := authenticated.Group("/wallet")
	wallet.Get("/", middleware.HasPermission(models.PermissionWalletRead), h.Wallet.GetWallet)
	wallet.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), h.Wallet.GetTransactions)
	wallet.Get("/limits", middleware.HasPermission(models.PermissionWalletRead), h.Wallet.GetLimits)
	wallet.Post("/deposit", middleware.HasPermission(models.PermissionWalletWrite), h.Wallet.Deposit)
	wallet.Post("/deposit/verify", middleware.HasPermission(models.PermissionWalletWrite), h.Wallet.VerifyDeposit)
	wallet.Post("/withdraw", middleware.HasPermission(models.PermissionWalletWrite), h.Wallet.Withdraw)

	// Admin ledger routes
	admin := authenticated.Group("/admin", middleware.AdminAuthMiddleware)
	admin.Get("/wallets", middleware.HasPermission(models.PermissionReadAdmin), h.Admin.GetAllWallets)
	admin.Get("/wallets/:userId/reconcile", middleware.HasPermission(models.PermissionReadAdmin), h.Admin.Reconcile)
}
