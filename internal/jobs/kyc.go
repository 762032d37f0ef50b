package jobs

import (
	"context"
	"time"

	"brokerage/internal/logger"
	"brokerage/internal/repositories"
	"brokerage/internal/services/kyc"

	"go.uber.org/zap"
)

const (
	SweepJob       = "kyc_retention_sweep"
	RetryJob       = "kyc_scoring_retry"
	StatsReportJob = "kyc_stats_report"

	day  = 24 * time.Hour
	week = 7 * day
)

// DocumentMaintainer is the slice of the KYC service the maintenance jobs drive.
type DocumentMaintainer interface {
	Sweep(ctx context.Context) (*kyc.SweepResult, error)
	RetryScoring(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*repositories.DocumentStats, error)
}

// KYCJobs builds the daily sweep at cleanupHour, the hourly scoring retry and
// the weekly stats report.
func KYCJobs(svc DocumentMaintainer, cleanupHour int, now time.Time, log *zap.Logger) []*Job {
	log = logger.OrNop(log).Named("kyc_jobs")

	return []*Job{
		{
			Name:     SweepJob,
			Interval: day,
			NextRun:  NextDaily(now, cleanupHour),
			Run: func(ctx context.Context) error {
				res, err := svc.Sweep(ctx)
				if err != nil {
					return err
				}
				log.Info("retention sweep",
					zap.Int("scanned", res.Scanned),
					zap.Int("deleted", res.Deleted),
					zap.Int("failed", res.Failed))
				return nil
			},
		},
		{
			Name:     RetryJob,
			Interval: time.Hour,
			Run: func(ctx context.Context) error {
				_, err := svc.RetryScoring(ctx)
				return err
			},
		},
		{
			Name:     StatsReportJob,
			Interval: week,
			Run: func(ctx context.Context) error {
				stats, err := svc.Stats(ctx)
				if err != nil {
					return err
				}
				fields := []zap.Field{
					zap.Int64("total", stats.Total),
					zap.Int64("last_seven_days", stats.LastSevenDays),
					zap.Float64("average_score", stats.AverageScore),
				}
				for status, n := range stats.ByStatus {
					fields = append(fields, zap.Int64("status_"+string(status), n))
				}
				log.Info("weekly KYC report", fields...)
				return nil
			},
		},
	}
}
