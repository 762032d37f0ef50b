package kyc

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/logger"
	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/repositories/cache"
	"brokerage/internal/services/ocr"
	"brokerage/internal/storage"

	"go.uber.org/zap"
)

type service struct {
	repo     repositories.DocumentRepository
	store    storage.DocumentStore
	cipher   Encrypter
	analyzer *ocr.Analyzer
	profiles ProfileFiller
	limiter  cache.RateLimiter
	config   Config
	metrics  MetricsCollector
	logger   *zap.Logger
	now      func() time.Time

	background context.Context
	scoring    sync.WaitGroup
	slots      chan struct{}
}

// NewService creates the KYC service. analyzer, limiter and metrics are optional.
func NewService(
	repo repositories.DocumentRepository,
	store storage.DocumentStore,
	cipher Encrypter,
	analyzer *ocr.Analyzer,
	profiles ProfileFiller,
	limiter cache.RateLimiter,
	config Config,
	metrics MetricsCollector,
	log *zap.Logger,
) Service {
	if repo == nil || store == nil || cipher == nil {
		panic("document repository, store and cipher are required")
	}
	if profiles == nil {
		panic("profile service is required")
	}

	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}
	if config.UploadsPerHour <= 0 {
		config.UploadsPerHour = DefaultUploadsPerHour
	}
	if config.RejectCommentMin <= 0 {
		config.RejectCommentMin = DefaultRejectCommentMin
	}
	if config.AutoVerifyScore <= 0 {
		config.AutoVerifyScore = DefaultAutoVerifyScore
	}
	if config.RetentionDays <= 0 {
		config.RetentionDays = DefaultRetentionDays
	}
	if config.RetryMaxAttempts <= 0 {
		config.RetryMaxAttempts = DefaultRetryMaxAttempts
	}
	if config.RetryWindow <= 0 {
		config.RetryWindow = DefaultRetryWindow
	}
	if config.ScoringConcurrency <= 0 {
		config.ScoringConcurrency = DefaultScoringConcurrency
	}
	if config.ScoringTimeout <= 0 {
		config.ScoringTimeout = DefaultScoringTimeout
	}

	if analyzer == nil {
		analyzer = ocr.NewAnalyzer(nil, nil, nil)
	}
	if metrics == nil {
		metrics = NoopMetricsCollector{}
	}

	return &service{
		repo:     repo,
		store:    store,
		cipher:   cipher,
		analyzer: analyzer,
		profiles: profiles,
		limiter:  limiter,
		config:   config,
		metrics:  metrics,
		logger:   logger.OrNop(log).Named("kyc"),
		now:      time.Now,

		background: context.Background(),
		slots:      make(chan struct{}, config.ScoringConcurrency),
	}
}

// Status lists the user's documents, newest first, with a per-identity summary.
func (s *service) Status(ctx context.Context, userID uint) (*StatusReport, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Documents: make([]models.KYCDocument, 0, len(docs)),
		Identity:  identityStatus(docs),
	}
	for _, d := range docs {
		report.Documents = append(report.Documents, d.Redacted())
	}
	if len(report.Documents) > 0 {
		latest := report.Documents[0]
		report.Latest = &latest
	}
	return report, nil
}

// identityStatus expects docs ordered newest first.
func identityStatus(docs []models.KYCDocument) IdentityStatus {
	var st IdentityStatus
	for i := range docs {
		d := &docs[i]
		var slot *models.DocumentStatus
		switch d.Identity() {
		case models.IdentityPassport:
			slot = &st.Passport
		case models.IdentityNationalIDFront:
			slot = &st.NationalIDFront
		case models.IdentityNationalIDBack:
			slot = &st.NationalIDBack
		case models.IdentityNationalIDLegacy:
			slot = &st.NationalID
		}
		if slot != nil && *slot == "" {
			*slot = d.Status
		}
	}

	st.Complete = models.CoverageOf(docs, func(d *models.KYCDocument) bool {
		return d.Status != models.DocumentStatusRejected
	}).Complete()
	st.Verified = models.CoverageOf(docs, func(d *models.KYCDocument) bool {
		return d.Status == models.DocumentStatusApproved
	}).Complete()
	return st
}

// GetDocument returns a document to its owner without storage internals, or
// to an admin together with its audit trail.
func (s *service) GetDocument(ctx context.Context, id string, principal models.Principal) (*DocumentView, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapDocumentError(err)
	}
	if !principal.Admin {
		if doc.UserID != principal.UserID {
			return nil, apperrors.ErrDocumentAccessDenied
		}
		return &DocumentView{Document: doc.Redacted()}, nil
	}

	logs, err := s.repo.AuditLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DocumentView{Document: *doc, AuditLogs: logs}, nil
}

// Download decrypts a document for an admin.
func (s *service) Download(ctx context.Context, id string, principal models.Principal) (*File, error) {
	if !principal.Admin {
		return nil, apperrors.ErrDocumentAccessDenied
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapDocumentError(err)
	}
	data, err := s.readDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	name := doc.OriginalFilename
	if name == "" {
		name = doc.ID + filepath.Ext(doc.Location)
	}
	s.logger.Info("document downloaded",
		zap.String("document_id", doc.ID),
		zap.Uint("admin_id", principal.UserID))
	return &File{Name: name, MimeType: doc.MimeType, Data: data}, nil
}

func (s *service) ListPending(ctx context.Context, limit, offset int) ([]models.KYCDocument, int64, error) {
	return s.repo.ListPending(ctx, limit, offset)
}

func (s *service) Stats(ctx context.Context) (*repositories.DocumentStats, error) {
	return s.repo.Stats(ctx)
}

// readDocument loads and, when sealed, decrypts the stored bytes.
func (s *service) readDocument(ctx context.Context, doc *models.KYCDocument) ([]byte, error) {
	raw, err := s.store.Read(ctx, doc.Location)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.ErrDocumentNotFound.WithMessage("stored file for document %s is missing", doc.ID)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if !doc.HasEncryption() {
		return raw, nil
	}
	plain, err := s.cipher.Decrypt(raw, doc.EncryptionIV, doc.AuthTag)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt document %s: %w", doc.ID, err)
	}
	return plain, nil
}

func mapDocumentError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrDocumentNotFound):
		return apperrors.ErrDocumentNotFound
	case errors.Is(err, repositories.ErrDocumentFinalized):
		return apperrors.ErrDocumentFinalized
	}
	return err
}
