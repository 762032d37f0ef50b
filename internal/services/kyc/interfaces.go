package kyc

import (
	"context"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/security"
	"brokerage/internal/services/extraction"
	"brokerage/internal/services/profile"
)

// Service runs the KYC document lifecycle: upload, scoring, review and retention.
type Service interface {
	Upload(ctx context.Context, req UploadRequest) (*models.KYCDocument, error)
	Status(ctx context.Context, userID uint) (*StatusReport, error)
	GetDocument(ctx context.Context, id string, principal models.Principal) (*DocumentView, error)
	Download(ctx context.Context, id string, principal models.Principal) (*File, error)

	// Reviewer operations
	ListPending(ctx context.Context, limit, offset int) ([]models.KYCDocument, int64, error)
	Stats(ctx context.Context) (*repositories.DocumentStats, error)
	Decide(ctx context.Context, req DecisionRequest) (*models.KYCDocument, error)
	Verify(ctx context.Context, id string) (*ScoreResult, error)

	// Background work
	Score(ctx context.Context, id string) (*ScoreResult, error)
	Sweep(ctx context.Context) (*SweepResult, error)
	RetryScoring(ctx context.Context) (int, error)

	// Wait blocks until scheduled scoring has finished.
	Wait()
}

// Encrypter seals document bytes at rest.
type Encrypter interface {
	Encrypt(plaintext []byte) (*security.Sealed, error)
	Decrypt(ciphertext []byte, ivHex, tagHex string) ([]byte, error)
}

// ProfileFiller is the part of the profile service fed by extraction.
type ProfileFiller interface {
	AutoFill(ctx context.Context, userID uint, info extraction.PersonalInfo) (*profile.AutoFillResult, error)
	InvalidateCompletion(ctx context.Context, userID uint)
}

// MetricsCollector records lifecycle events.
type MetricsCollector interface {
	IncUpload(docType, side string)
	IncDecision(decision string)
	IncScoringFailure()
	AddSwept(n int)
	ObserveScore(score int, d time.Duration)
}
