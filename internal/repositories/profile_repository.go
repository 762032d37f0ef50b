package repositories

import (
	"context"
	"errors"

	"brokerage/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists one KYC profile per user.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.KYCProfile, error)
	Create(ctx context.Context, profile *models.KYCProfile) error
	Save(ctx context.Context, profile *models.KYCProfile) error
	UpdateStatus(ctx context.Context, userID uint, from []models.ProfileStatus, fields map[string]interface{}) (*models.KYCProfile, error)
	ExecuteInTransaction(ctx context.Context, fn func(ProfileRepository) error) error
	GetForUpdate(ctx context.Context, userID uint) (*models.KYCProfile, error)
}
