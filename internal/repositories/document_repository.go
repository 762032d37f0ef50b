package repositories

import (
	"context"
	"errors"
	"time"

	"brokerage/internal/models"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrDocumentFinalized = errors.New("document already reviewed")
)

// DocumentRepository persists KYC documents and their audit trail.
// Methods taking an audit entry write it in the same transaction as the row change.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.KYCDocument, audit *models.KYCAuditLog) error
	GetByID(ctx context.Context, id string) (*models.KYCDocument, error)
	ListByUser(ctx context.Context, userID uint) ([]models.KYCDocument, error)
	HasActive(ctx context.Context, userID uint, docType models.DocumentType, side models.DocumentSide) (bool, error)
	LatestWithPersonalInfo(ctx context.Context, userID uint) (*models.KYCDocument, error)

	UpdateScore(ctx context.Context, id string, extracted models.JSON, score int, audit *models.KYCAuditLog) error
	Decide(ctx context.Context, id string, status models.DocumentStatus, reviewerID uint, comment string, audit *models.KYCAuditLog) (*models.KYCDocument, error)
	AppendAudit(ctx context.Context, audit *models.KYCAuditLog) error
	AuditLogs(ctx context.Context, documentID string) ([]models.KYCAuditLog, error)

	ListSweepable(ctx context.Context, cutoff time.Time) ([]models.KYCDocument, error)
	DeleteSwept(ctx context.Context, doc *models.KYCDocument, audit *models.KYCAuditLog) (bool, error)
	ListRetryCandidates(ctx context.Context, since time.Time, belowScore, maxAttempts int) ([]models.KYCDocument, error)

	ListPending(ctx context.Context, limit, offset int) ([]models.KYCDocument, int64, error)
	Stats(ctx context.Context) (*DocumentStats, error)
}

// DocumentStats aggregates documents for reviewers.
type DocumentStats struct {
	Total         int64                           `json:"total"`
	ByStatus      map[models.DocumentStatus]int64 `json:"by_status"`
	ByType        map[models.DocumentType]int64   `json:"by_type"`
	AverageScore  float64                         `json:"average_score"`
	LastSevenDays int64                           `json:"last_seven_days"`
}
