// Package main is the entry point for the brokerage API.
// It initializes all dependencies, sets up the HTTP server,
// and starts the maintenance scheduler.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brokerage/internal/config"
	"brokerage/internal/handlers"
	"brokerage/internal/jobs"
	"brokerage/internal/logger"
	"brokerage/internal/metrics"
	"brokerage/internal/middleware"
	"brokerage/internal/repositories"
	"brokerage/internal/repositories/cache"
	"brokerage/internal/routes"
	"brokerage/internal/security"
	"brokerage/internal/services/kyc"
	"brokerage/internal/services/payment"
	"brokerage/internal/services/profile"
	"brokerage/internal/services/wallet"
	"brokerage/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 15 * time.Second
	poolStatsEvery  = time.Minute
	// multipart overhead on top of the largest accepted document
	bodyLimitSlack = 1024 * 1024
)

func main() {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, syncLog := logger.New(cfg.IsProduction())
	defer func() { _ = syncLog() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize databases (PostgreSQL + Redis)
	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			zlog.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	zlog.Info("connected to database",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns))

	redisClient := cache.NewRedisClient(cfg.Redis)
	cacheService := cache.NewCacheService(redisClient, cfg.Wallet.CacheTTL)
	defer func() {
		if err := cacheService.Close(); err != nil {
			zlog.Warn("failed to close redis connection", zap.Error(err))
		}
	}()
	if err := cacheService.HealthCheck(ctx); err != nil {
		zlog.Warn("redis unavailable, caches and upload limits degrade open", zap.Error(err))
	}

	go logPoolStats(ctx, zlog, func() string {
		s := sqlDB.Stats()
		r := cacheService.GetStats()
		return fmt.Sprintf("db open=%d idle=%d in_use=%d wait_count=%d wait=%s redis total=%d idle=%d hits=%d misses=%d",
			s.OpenConnections, s.Idle, s.InUse, s.WaitCount, s.WaitDuration,
			r.TotalConns, r.IdleConns, r.Hits, r.Misses)
	})

	cipher, err := security.NewCipher(cfg.KYC.EncryptionKey)
	if err != nil {
		return err
	}
	store, err := storage.NewLocalStore(cfg.KYC.UploadDir)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	// Initialize repositories
	documentRepo := repositories.NewDocumentRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	walletRepo := repositories.NewWalletRepository(db)

	// Initialize services in dependency order
	profileService := profile.NewService(profileRepo, documentRepo, cacheService, profile.Config{}, zlog)
	kycService := kyc.NewService(
		documentRepo,
		store,
		cipher,
		nil,
		profileService,
		cache.NewRedisRateLimiter(redisClient),
		kyc.Config{
			MaxFileSize:        cfg.KYC.MaxFileSize,
			UploadsPerHour:     cfg.KYC.UploadsPerHour,
			RejectCommentMin:   cfg.KYC.RejectCommentMin,
			AutoVerifyScore:    cfg.KYC.AutoVerifyScore,
			RetentionDays:      cfg.KYC.RetentionDays,
			RetryMaxAttempts:   cfg.KYC.RetryMaxAttempts,
			RetryWindow:        cfg.KYC.RetryWindow,
			ScoringConcurrency: cfg.KYC.ScoringConcurrency,
			ScoringTimeout:     cfg.KYC.ScoringTimeout,
		},
		appMetrics,
		zlog,
	)
	walletService := wallet.NewService(
		walletRepo,
		profileRepo,
		documentRepo,
		payment.NewStripeProcessor(cfg.Wallet.StripeSecretKey, cfg.Wallet.StripeWebhookKey),
		cacheService,
		wallet.WalletConfig{
			DepositCap:      cfg.Wallet.DepositCap,
			ConversionRate:  cfg.Wallet.ConversionRate,
			MinDeposit:      cfg.Wallet.MinDeposit,
			DisplayCurrency: cfg.Wallet.DisplayCurrency,
			LedgerCurrency:  cfg.Wallet.LedgerCurrency,
			SuccessURL:      cfg.Wallet.SuccessURL,
			CancelURL:       cfg.Wallet.CancelURL,
			CacheTTL:        cfg.Wallet.CacheTTL,
		},
		appMetrics,
		zlog,
	)

	scheduler := jobs.NewScheduler(jobs.DefaultTick, zlog)
	for _, job := range jobs.KYCJobs(kycService, cfg.KYC.CleanupHour, time.Now(), zlog) {
		scheduler.Schedule(job)
	}
	scheduler.Start(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit:             int(cfg.KYC.MaxFileSize) + bodyLimitSlack,
		DisableStartupMessage: cfg.IsProduction(),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use("/api/kyc/upload", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Auth:     middleware.NewAuthMiddleware(cfg.JWTSecret, zlog),
		KYC:      handlers.NewKYCHandler(kycService, cfg.KYC.MaxFileSize),
		KYCAdmin: handlers.NewKYCAdminHandler(kycService, profileService),
		Profile:  handlers.NewProfileHandler(profileService),
		Wallet:   handlers.NewWalletHandler(walletService),
		Admin:    handlers.NewAdminHandler(walletService),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": sqlDB.PingContext,
			"redis":   cacheService.HealthCheck,
		}),
		Metrics: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	listenErr := make(chan error, 1)
	go func() {
		zlog.Info("http server listening", zap.String("port", cfg.Port))
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err = <-listenErr:
	case <-ctx.Done():
		zlog.Info("shutting down")
		err = app.ShutdownWithTimeout(shutdownTimeout)
	}

	scheduler.Stop()
	// let in-flight scoring finish before the database closes
	kycService.Wait()
	return err
}

func logPoolStats(ctx context.Context, zlog *zap.Logger, stats func() string) {
	ticker := time.NewTicker(poolStatsEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			zlog.Debug("db pool", zap.String("stats", stats()))
		case <-ctx.Done():
			return
		}
	}
}
