package repositories

import (
	"context"
	"errors"
	"fmt"

	"brokerage/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.KYCProfile, error) {
	var profile models.KYCProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// GetForUpdate locks the profile row; only meaningful inside ExecuteInTransaction.
func (r *profileRepository) GetForUpdate(ctx context.Context, userID uint) (*models.KYCProfile, error) {
	var profile models.KYCProfile
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to lock profile: %w", err)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.KYCProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Save(ctx context.Context, profile *models.KYCProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// UpdateStatus applies fields only while the profile is in one of the from
// statuses. A profile that moved on in the meantime yields ErrProfileNotFound.
func (r *profileRepository) UpdateStatus(ctx context.Context, userID uint, from []models.ProfileStatus, fields map[string]interface{}) (*models.KYCProfile, error) {
	res := r.db.WithContext(ctx).Model(&models.KYCProfile{}).
		Where("user_id = ? AND status IN ?", userID, from).
		Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProfileNotFound
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) ExecuteInTransaction(ctx context.Context, fn func(ProfileRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&profileRepository{db: tx})
	})
}
