package profile

import (
	"context"
	"errors"
	"strings"

	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/repositories/cache"

	"go.uber.org/zap"
)

// Step weights sum to 100. A single national ID side earns half the ID weight.
const (
	weightPersonal   = 20
	weightContact    = 10
	weightFinancial  = 30
	weightExperience = 10
	weightIdentity   = 30

	// MinDepositCompletion is the completion needed before deposits are offered.
	MinDepositCompletion = 70
)

// CompletionStatus scores the profile and identity documents. A missing
// profile is reported as zero progress rather than an error.
func (s *service) CompletionStatus(ctx context.Context, userID uint) (*Completion, error) {
	key := completionKey(userID)
	if s.cache != nil {
		var cached Completion
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("completion cache read failed", zap.Uint("user_id", userID), zap.Error(err))
		} else if found {
			return &cached, nil
		}
	}

	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, mapProfileError(err)
	}
	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c := computeCompletion(p, docs)
	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, key, c, s.config.CompletionTTL); err != nil {
			s.logger.Warn("completion cache write failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return c, nil
}

// InvalidateCompletion drops the cached completion for userID.
func (s *service) InvalidateCompletion(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, completionKey(userID)); err != nil {
		s.logger.Warn("completion cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func completionKey(userID uint) string {
	return cache.GenerateKey("kyc", "completion", userID)
}

func computeCompletion(p *models.KYCProfile, docs []models.KYCDocument) *Completion {
	if p == nil {
		p = &models.KYCProfile{}
	}

	active := models.CoverageOf(docs, func(d *models.KYCDocument) bool {
		return d.Status != models.DocumentStatusRejected
	})
	approved := models.CoverageOf(docs, func(d *models.KYCDocument) bool {
		return d.Status == models.DocumentStatusApproved
	})

	identityEarned := 0
	switch {
	case active.Complete():
		identityEarned = weightIdentity
	case active.Partial():
		identityEarned = weightIdentity / 2
	}

	steps := []Step{
		binaryStep(StepPersonal, weightPersonal, personalComplete(p)),
		binaryStep(StepContact, weightContact, present(p.PhoneNumber)),
		binaryStep(StepFinancial, weightFinancial, financialComplete(p)),
		binaryStep(StepExperience, weightExperience, experienceComplete(p)),
		{Key: StepIdentity, Weight: weightIdentity, Earned: identityEarned, Complete: identityEarned == weightIdentity},
	}

	c := &Completion{
		Steps:         steps,
		ProfileStatus: p.Status,
		Identity: IdentitySummary{
			Passport:        active.Passport,
			NationalIDFront: active.Front || active.Legacy,
			NationalIDBack:  active.Back || active.Legacy,
			Complete:        active.Complete(),
		},
	}
	for _, st := range steps {
		c.Percentage += st.Earned
	}

	c.DocumentStatus = documentStatus(docs, active, approved)
	c.CanTrade = c.Percentage == 100 &&
		p.Status == models.ProfileStatusApproved &&
		c.DocumentStatus == models.DocumentStatusApproved
	c.CanDeposit = c.Percentage >= MinDepositCompletion && c.DocumentStatus != models.DocumentStatusRejected
	c.NextAction = nextAction(p, steps, active, c.CanTrade)
	return c
}

// documentStatus summarizes the identity documents: APPROVED once approved
// documents prove identity, PENDING while live ones are awaiting review, and
// REJECTED only when every submission was rejected.
func documentStatus(docs []models.KYCDocument, active, approved models.IdentityCoverage) models.DocumentStatus {
	if approved.Complete() {
		return models.DocumentStatusApproved
	}
	if active.Complete() || active.Partial() {
		return models.DocumentStatusPending
	}
	if len(docs) > 0 {
		return models.DocumentStatusRejected
	}
	return ""
}

func nextAction(p *models.KYCProfile, steps []Step, identity models.IdentityCoverage, canTrade bool) string {
	byKey := make(map[string]Step, len(steps))
	for _, st := range steps {
		byKey[st.Key] = st
	}

	switch {
	case canTrade:
		return NextNone
	case !byKey[StepPersonal].Complete || !byKey[StepFinancial].Complete || !byKey[StepExperience].Complete:
		return NextFillProfile
	case !byKey[StepContact].Complete:
		return NextAddPhone
	case identity.Partial() && identity.Front:
		return NextUploadIDBack
	case identity.Partial() && identity.Back:
		return NextUploadIDFront
	case !identity.Complete():
		return NextUploadID
	case p.Status == models.ProfileStatusDraft:
		return NextSubmitProfile
	case p.Status == models.ProfileStatusRejected:
		return NextUpdateProfile
	}
	return NextWaitForApproval
}

func binaryStep(key string, weight int, done bool) Step {
	st := Step{Key: key, Weight: weight, Complete: done}
	if done {
		st.Earned = weight
	}
	return st
}

func personalComplete(p *models.KYCProfile) bool {
	return present(p.FirstName) && present(p.LastName) &&
		p.DateOfBirth != nil && !p.DateOfBirth.IsZero() &&
		present(p.Nationality) && present(p.CountryOfResidence) &&
		present(p.AddressLine1) && present(p.City) && present(p.PostalCode)
}

func financialComplete(p *models.KYCProfile) bool {
	return present(p.EmploymentStatus) && p.AnnualIncome.IsPositive() && present(p.SourceOfFunds)
}

func experienceComplete(p *models.KYCProfile) bool {
	return present(p.TradingExperienceLevel) && present(p.RiskTolerance) && present(p.AccountPurpose)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
