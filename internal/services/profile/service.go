package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/logger"
	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/validation"

	"go.uber.org/zap"
)

const (
	DefaultCompletionTTL  = 5 * time.Minute
	DefaultReviewNotesMin = 10
)

type service struct {
	repo      repositories.ProfileRepository
	documents DocumentReader
	cache     CacheOperator
	config    Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates the profile service. cache is optional.
func NewService(repo repositories.ProfileRepository, documents DocumentReader, cache CacheOperator, config Config, log *zap.Logger) Service {
	if repo == nil || documents == nil {
		panic("profile and document repositories are required")
	}
	if config.CompletionTTL <= 0 {
		config.CompletionTTL = DefaultCompletionTTL
	}
	if config.ReviewNotesMin <= 0 {
		config.ReviewNotesMin = DefaultReviewNotesMin
	}
	return &service{
		repo:      repo,
		documents: documents,
		cache:     cache,
		config:    config,
		logger:    logger.OrNop(log).Named("profile"),
		now:       time.Now,
	}
}

func (s *service) Get(ctx context.Context, userID uint) (*models.KYCProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}
	return p, nil
}

// Save creates the profile or merges in onto an editable one. Saving a
// rejected profile returns it to DRAFT.
func (s *service) Save(ctx context.Context, userID uint, in Input) (*SaveResult, error) {
	result := &SaveResult{}
	err := s.repo.ExecuteInTransaction(ctx, func(repo repositories.ProfileRepository) error {
		p, err := repo.GetForUpdate(ctx, userID)
		switch {
		case errors.Is(err, repositories.ErrProfileNotFound):
			p = &models.KYCProfile{UserID: userID, Status: models.ProfileStatusDraft}
			result.Action = ActionCreated
		case err != nil:
			return err
		case !p.Editable():
			return apperrors.ErrProfileLocked
		default:
			result.Action = ActionUpdated
		}

		v := validation.New()
		in.apply(p, v)
		v.ProfileFields(p)
		if err := v.Err(apperrors.ErrInvalidProfile); err != nil {
			return err
		}
		if p.PhoneNumber != "" {
			p.PhoneNumber = validation.CleanPhoneNumber(p.PhoneNumber)
		}
		if p.MobileNumber != "" {
			p.MobileNumber = validation.CleanPhoneNumber(p.MobileNumber)
		}
		p.Status = models.ProfileStatusDraft

		if result.Action == ActionCreated {
			err = repo.Create(ctx, p)
		} else {
			err = repo.Save(ctx, p)
		}
		if err != nil {
			return err
		}
		result.Profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateCompletion(ctx, userID)
	s.logger.Info("profile saved",
		zap.Uint("user_id", userID),
		zap.String("action", result.Action))
	return result, nil
}

// Submit moves a valid DRAFT profile to SUBMITTED.
func (s *service) Submit(ctx context.Context, userID uint) (*models.KYCProfile, error) {
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}
	if p.Status != models.ProfileStatusDraft {
		return nil, apperrors.ErrProfileAlreadySubmitted
	}

	now := s.now()
	v := validation.New()
	v.ProfileSubmission(p, now)
	if err := v.Err(apperrors.ErrInvalidProfile); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, userID, []models.ProfileStatus{models.ProfileStatusDraft}, map[string]interface{}{
		"status":       models.ProfileStatusSubmitted,
		"submitted_at": now,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrProfileAlreadySubmitted
		}
		return nil, err
	}

	s.InvalidateCompletion(ctx, userID)
	s.logger.Info("profile submitted", zap.Uint("user_id", userID))
	return updated, nil
}

// Review records a reviewer's decision on a SUBMITTED profile.
func (s *service) Review(ctx context.Context, userID, reviewerID uint, approve bool, notes string) (*models.KYCProfile, error) {
	status := models.ProfileStatusApproved
	if !approve {
		status = models.ProfileStatusRejected
		v := validation.New()
		v.MinLength("notes", notes, s.config.ReviewNotesMin)
		if !v.Valid() {
			return nil, apperrors.ErrCommentRequired.WithMessage(
				"rejection notes must be at least %d characters", s.config.ReviewNotesMin)
		}
	}

	updated, err := s.repo.UpdateStatus(ctx, userID, []models.ProfileStatus{models.ProfileStatusSubmitted}, map[string]interface{}{
		"status":       status,
		"reviewed_by":  reviewerID,
		"reviewed_at":  s.now(),
		"review_notes": notes,
	})
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, err
		}
		// Tell a missing profile apart from one that is not awaiting review.
		if _, getErr := s.repo.GetByUserID(ctx, userID); getErr != nil {
			return nil, mapProfileError(getErr)
		}
		return nil, apperrors.ErrProfileNotSubmitted
	}

	s.InvalidateCompletion(ctx, userID)
	s.logger.Info("profile reviewed",
		zap.Uint("user_id", userID),
		zap.Uint("reviewer_id", reviewerID),
		zap.String("status", string(status)))
	return updated, nil
}

func mapProfileError(err error) error {
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return apperrors.ErrProfileNotFound
	}
	return fmt.Errorf("failed to load profile: %w", err)
}
