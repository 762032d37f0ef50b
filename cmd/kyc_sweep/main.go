// Command kyc_sweep runs the KYC retention sweep once, for deployments that
// schedule maintenance with an external cron instead of the in-process scheduler.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"brokerage/internal/config"
	"brokerage/internal/logger"
	"brokerage/internal/repositories"
	"brokerage/internal/security"
	"brokerage/internal/services/kyc"
	"brokerage/internal/services/profile"
	"brokerage/internal/storage"

	"go.uber.org/zap"
)

func main() {
	retry := flag.Bool("retry", false, "also re-score recent low-score documents")
	flag.Parse()

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	zlog, syncLog := logger.New(cfg.IsProduction())
	defer func() { _ = syncLog() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repositories.InitDB(cfg.Database)
	if err != nil {
		zlog.Fatal("database unavailable", zap.Error(err))
	}
	defer func() {
		if err := repositories.Close(db); err != nil {
			zlog.Warn("failed to close database connection", zap.Error(err))
		}
	}()

	cipher, err := security.NewCipher(cfg.KYC.EncryptionKey)
	if err != nil {
		zlog.Fatal("invalid encryption key", zap.Error(err))
	}
	store, err := storage.NewLocalStore(cfg.KYC.UploadDir)
	if err != nil {
		zlog.Fatal("document store unavailable", zap.Error(err))
	}

	documents := repositories.NewDocumentRepository(db)
	profiles := profile.NewService(repositories.NewProfileRepository(db), documents, nil, profile.Config{}, zlog)
	svc := kyc.NewService(documents, store, cipher, nil, profiles, nil, kyc.Config{
		AutoVerifyScore:    cfg.KYC.AutoVerifyScore,
		RetentionDays:      cfg.KYC.RetentionDays,
		RetryMaxAttempts:   cfg.KYC.RetryMaxAttempts,
		RetryWindow:        cfg.KYC.RetryWindow,
		ScoringConcurrency: cfg.KYC.ScoringConcurrency,
		ScoringTimeout:     cfg.KYC.ScoringTimeout,
	}, nil, zlog)

	res, err := svc.Sweep(ctx)
	if res == nil {
		zlog.Fatal("sweep failed", zap.Error(err))
	}
	if err != nil {
		zlog.Error("sweep interrupted", zap.Error(err))
	}
	zlog.Info("sweep finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("deleted", res.Deleted),
		zap.Int("failed", res.Failed))

	if *retry && ctx.Err() == nil {
		n, err := svc.RetryScoring(ctx)
		if err != nil {
			zlog.Error("scoring retry failed", zap.Error(err))
		}
		zlog.Info("scoring retry finished", zap.Int("retried", n))
	}

	if res.Failed > 0 {
		os.Exit(1)
	}
}
