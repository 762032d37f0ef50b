package wallet

import (
	"context"
	"errors"
	"fmt"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"
	"brokerage/internal/repositories"
)

func approvedDocument(d *models.KYCDocument) bool {
	return d.Status == models.DocumentStatusApproved
}

// IsKYCApproved requires an APPROVED profile and approved identity proof:
// a passport, a legacy single national ID, or both national ID sides.
func (s *service) IsKYCApproved(ctx context.Context, userID uint) (bool, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile.Status != models.ProfileStatusApproved {
		return false, nil
	}

	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load documents: %w", err)
	}
	return models.CoverageOf(docs, approvedDocument).Complete(), nil
}

func (s *service) AssertWithdrawalAllowed(ctx context.Context, userID uint) error {
	approved, err := s.IsKYCApproved(ctx, userID)
	if err != nil {
		return err
	}
	if !approved {
		return apperrors.ErrWithdrawalNotAllowed
	}
	return nil
}
