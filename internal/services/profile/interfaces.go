package profile

import (
	"context"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/services/extraction"
)

// Service manages the user's declared KYC profile.
type Service interface {
	Get(ctx context.Context, userID uint) (*models.KYCProfile, error)
	Save(ctx context.Context, userID uint, in Input) (*SaveResult, error)
	Submit(ctx context.Context, userID uint) (*models.KYCProfile, error)
	Review(ctx context.Context, userID, reviewerID uint, approve bool, notes string) (*models.KYCProfile, error)

	CompletionStatus(ctx context.Context, userID uint) (*Completion, error)
	InvalidateCompletion(ctx context.Context, userID uint)

	// AutoFill writes extracted fields into empty profile fields only.
	AutoFill(ctx context.Context, userID uint, info extraction.PersonalInfo) (*AutoFillResult, error)
	AutoFillSuggestions(ctx context.Context, userID uint) (*Suggestions, error)
}

// DocumentReader is the slice of the document store the profile needs.
type DocumentReader interface {
	ListByUser(ctx context.Context, userID uint) ([]models.KYCDocument, error)
	LatestWithPersonalInfo(ctx context.Context, userID uint) (*models.KYCDocument, error)
}

// CacheOperator stores computed completion snapshots.
type CacheOperator interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
