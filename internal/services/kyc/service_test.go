package kyc

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/metrics"
	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/repositories/cache"
	"brokerage/internal/repositories/testutil"
	"brokerage/internal/security"
	"brokerage/internal/services/ocr"
	"brokerage/internal/services/profile"
	"brokerage/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const passportText = "PASSPORT\nJohn Smith\nP12345678\nDate of birth: 15/01/1990\nNationality: Canada"

type failingStore struct{}

func (failingStore) Save(context.Context, string, []byte) (string, error) {
	return "", errors.New("disk full")
}
func (failingStore) Read(context.Context, string) ([]byte, error) { return nil, storage.ErrNotFound }
func (failingStore) Delete(context.Context, string) error         { return nil }

type requestKey struct{}

// contextRecorder remembers the request value visible to the OCR engine.
type contextRecorder struct {
	mu   sync.Mutex
	seen []interface{}
}

func (r *contextRecorder) ExtractText(ctx context.Context, _ []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, ctx.Value(requestKey{}))
	return passportText, nil
}

// invalidationRecorder counts completion cache invalidations per user.
type invalidationRecorder struct {
	profile.Service
	mu    sync.Mutex
	users []uint
}

func (r *invalidationRecorder) InvalidateCompletion(ctx context.Context, userID uint) {
	r.mu.Lock()
	r.users = append(r.users, userID)
	r.mu.Unlock()
	r.Service.InvalidateCompletion(ctx, userID)
}

func (r *invalidationRecorder) reset() {
	r.mu.Lock()
	r.users = nil
	r.mu.Unlock()
}

type KYCServiceSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	docs     repositories.DocumentRepository
	store    *storage.LocalStore
	cipher   *security.Cipher
	profiles profile.Service
	metrics  *metrics.Metrics
	svc      Service
}

func TestKYCServiceSuite(t *testing.T) {
	suite.Run(t, new(KYCServiceSuite))
}

func (s *KYCServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = testutil.NewDB(s.T())
	s.docs = repositories.NewDocumentRepository(s.db)

	store, err := storage.NewLocalStore(s.T().TempDir())
	s.Require().NoError(err)
	s.store = store
	s.cipher, err = security.NewCipher("test-secret")
	s.Require().NoError(err)

	s.profiles = profile.NewService(repositories.NewProfileRepository(s.db), s.docs, nil, profile.Config{}, nil)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.svc = s.newService(ocr.StaticEngine{Text: passportText}, Config{})
}

func (s *KYCServiceSuite) newService(engine ocr.StaticEngine, cfg Config) Service {
	return NewService(s.docs, s.store, s.cipher, ocr.NewStatic(engine), s.profiles,
		cache.NewMemoryRateLimiter(), cfg, s.metrics, nil)
}

func pngBytes(w, h int) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func (s *KYCServiceSuite) upload(svc Service, userID uint, docType models.DocumentType, side models.DocumentSide) *models.KYCDocument {
	doc, err := svc.Upload(s.ctx, UploadRequest{
		UserID:       userID,
		DocumentType: docType,
		Side:         side,
		Filename:     "scan.png",
		Data:         pngBytes(800, 600),
	})
	s.Require().NoError(err)
	svc.Wait()
	return doc
}

func (s *KYCServiceSuite) actions(docID string) []models.AuditAction {
	logs, err := s.docs.AuditLogs(s.ctx, docID)
	s.Require().NoError(err)
	out := make([]models.AuditAction, 0, len(logs))
	for _, l := range logs {
		out = append(out, l.Action)
	}
	return out
}

func (s *KYCServiceSuite) backdate(id string, age time.Duration) {
	s.Require().NoError(s.db.Model(&models.KYCDocument{}).Where("id = ?", id).
		Update("created_at", time.Now().Add(-age)).Error)
}

func (s *KYCServiceSuite) TestUpload_EncryptsScoresAndAutoFills() {
	doc, err := s.svc.Upload(s.ctx, UploadRequest{
		UserID:       1,
		DocumentType: models.DocumentTypePassport,
		Filename:     "../../passport.png",
		Data:         pngBytes(800, 600),
		Meta:         models.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "test"},
	})
	s.Require().NoError(err)
	s.Equal(models.DocumentSideSingle, doc.DocumentSide)
	s.Equal(models.DocumentStatusPending, doc.Status)
	s.Equal("passport.png", doc.OriginalFilename)
	s.True(doc.HasEncryption())

	raw, err := s.store.Read(s.ctx, doc.Location)
	s.Require().NoError(err)
	s.NotEqual(pngBytes(800, 600), raw, "stored bytes are sealed")

	s.svc.Wait()

	stored, err := s.docs.GetByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(80, stored.AutoScore)
	s.Equal(models.DocumentStatusPending, stored.Status, "scoring never decides")
	s.Equal("P12345678", stored.ExtractedData.String("document_number"))
	s.Equal([]models.AuditAction{models.AuditActionUpload, models.AuditActionAutoVerify, models.AuditActionAutoFill}, s.actions(doc.ID))

	p, err := s.profiles.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("John", p.FirstName)
	s.Equal("Smith", p.LastName)
	s.Equal("Canada", p.CountryOfResidence)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.Uploads.WithLabelValues("passport", "single")))
}

func (s *KYCServiceSuite) TestUpload_Validation() {
	tests := []struct {
		name string
		req  UploadRequest
		want error
	}{
		{"passport back", UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Side: models.DocumentSideBack, Data: pngBytes(10, 10)}, apperrors.ErrInvalidDocumentType},
		{"national id single", UploadRequest{UserID: 1, DocumentType: models.DocumentTypeNationalID, Side: models.DocumentSideSingle, Data: pngBytes(10, 10)}, apperrors.ErrInvalidDocumentType},
		{"unknown type", UploadRequest{UserID: 1, DocumentType: "licence", Side: models.DocumentSideFront, Data: pngBytes(10, 10)}, apperrors.ErrInvalidDocumentType},
		{"empty file", UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport}, apperrors.ErrFileRequired},
		{"text file", UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Data: []byte("hello world")}, apperrors.ErrUnsupportedFileType},
		{"bad extension", UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Filename: "scan.exe", Data: pngBytes(10, 10)}, apperrors.ErrUnsupportedFileType},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Upload(s.ctx, tt.req)
			s.ErrorIs(err, tt.want)
		})
	}

	small := s.newService(ocr.StaticEngine{}, Config{MaxFileSize: 64})
	_, err := small.Upload(s.ctx, UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Data: pngBytes(800, 600)})
	s.ErrorIs(err, apperrors.ErrFileTooLarge)

	docs, err := s.docs.ListByUser(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *KYCServiceSuite) TestUpload_OneActivePerTypeAndSide() {
	s.upload(s.svc, 1, models.DocumentTypeNationalID, models.DocumentSideFront)

	_, err := s.svc.Upload(s.ctx, UploadRequest{UserID: 1, DocumentType: models.DocumentTypeNationalID, Side: models.DocumentSideFront, Data: pngBytes(10, 10)})
	s.ErrorIs(err, apperrors.ErrActiveSubmission)

	s.upload(s.svc, 1, models.DocumentTypeNationalID, models.DocumentSideBack)
}

func (s *KYCServiceSuite) TestUpload_RateLimited() {
	svc := s.newService(ocr.StaticEngine{}, Config{UploadsPerHour: 2})
	s.upload(svc, 1, models.DocumentTypeNationalID, models.DocumentSideFront)
	s.upload(svc, 1, models.DocumentTypeNationalID, models.DocumentSideBack)

	_, err := svc.Upload(s.ctx, UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Data: pngBytes(10, 10)})
	s.ErrorIs(err, apperrors.ErrUploadRateLimited)

	s.upload(svc, 2, models.DocumentTypePassport, models.DocumentSideSingle)
}

func (s *KYCServiceSuite) TestUpload_StorageFailureLeavesNoRow() {
	svc := NewService(s.docs, failingStore{}, s.cipher, nil, s.profiles, nil, Config{}, nil, nil)
	_, err := svc.Upload(s.ctx, UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Data: pngBytes(10, 10)})
	s.ErrorIs(err, apperrors.ErrStorageFailure)

	docs, err := s.docs.ListByUser(s.ctx, 1)
	s.Require().NoError(err)
	s.Empty(docs)
}

func (s *KYCServiceSuite) TestScore_PDFBaseScore() {
	svc := s.newService(ocr.StaticEngine{}, Config{})
	doc, err := svc.Upload(s.ctx, UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Filename: "p.pdf", Data: []byte("%PDF-1.4\n%binary")})
	s.Require().NoError(err)
	s.Equal("application/pdf", doc.MimeType)
	svc.Wait()

	stored, err := s.docs.GetByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(30, stored.AutoScore)
	s.Equal("pdf", stored.ExtractedData.String("file_type"))
}

func (s *KYCServiceSuite) TestScore_BackSideSkipsAutoFill() {
	svc := s.newService(ocr.StaticEngine{Text: "John Smith\nResidence: Dubai\n784199012345678", Barcode: true}, Config{})
	doc := s.upload(svc, 1, models.DocumentTypeNationalID, models.DocumentSideBack)

	stored, err := s.docs.GetByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	// high resolution, barcode image, residence keyword, barcode digits
	s.Equal(20+15+10+15, stored.AutoScore)
	s.True(stored.ExtractedData.Bool("has_barcode"))

	_, err = s.profiles.Get(s.ctx, 1)
	s.ErrorIs(err, apperrors.ErrProfileNotFound)
	s.Equal([]models.AuditAction{models.AuditActionUpload, models.AuditActionAutoVerify}, s.actions(doc.ID))
}

func (s *KYCServiceSuite) TestScore_OCRFailureStillScoresSignals() {
	svc := s.newService(ocr.StaticEngine{Err: errors.New("engine down")}, Config{})
	doc := s.upload(svc, 1, models.DocumentTypePassport, models.DocumentSideSingle)

	stored, err := s.docs.GetByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(20, stored.AutoScore)
	s.Equal("failed to process text", stored.ExtractedData.String("ocr_error"))
}

func (s *KYCServiceSuite) TestScore_MissingFileIsAudited() {
	doc := s.upload(s.svc, 1, models.DocumentTypePassport, models.DocumentSideSingle)
	s.Require().NoError(s.store.Delete(s.ctx, doc.Location))

	_, err := s.svc.Verify(s.ctx, doc.ID)
	s.ErrorIs(err, apperrors.ErrDocumentNotFound)

	logs, err := s.docs.AuditLogs(s.ctx, doc.ID)
	s.Require().NoError(err)
	last := logs[len(logs)-1]
	s.Equal(models.AuditActionAutoVerify, last.Action)
	s.NotEmpty(last.Details.String("error"))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.ScoringFailures))

	_, err = s.svc.Verify(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrDocumentNotFound)
}

func (s *KYCServiceSuite) TestDecide() {
	doc := s.upload(s.svc, 1, models.DocumentTypePassport, models.DocumentSideSingle)

	_, err := s.svc.Decide(s.ctx, DecisionRequest{DocumentID: doc.ID, Decision: "maybe", ReviewerID: 9})
	s.ErrorIs(err, apperrors.ErrInvalidDecision)
	_, err = s.svc.Decide(s.ctx, DecisionRequest{DocumentID: doc.ID, Decision: DecisionReject, ReviewerID: 9, Comment: "  blurry  "})
	s.ErrorIs(err, apperrors.ErrCommentRequired)
	_, err = s.svc.Decide(s.ctx, DecisionRequest{DocumentID: "missing", Decision: DecisionApprove, ReviewerID: 9})
	s.ErrorIs(err, apperrors.ErrDocumentNotFound)

	decided, err := s.svc.Decide(s.ctx, DecisionRequest{
		DocumentID: doc.ID,
		Decision:   DecisionReject,
		ReviewerID: 9,
		Comment:    "photo page is cut off",
		Meta:       models.RequestMeta{IPAddress: "10.0.0.9"},
	})
	s.Require().NoError(err)
	s.Equal(models.DocumentStatusRejected, decided.Status)
	s.Require().NotNil(decided.ReviewedBy)
	s.Equal(uint(9), *decided.ReviewedBy)

	_, err = s.svc.Decide(s.ctx, DecisionRequest{DocumentID: doc.ID, Decision: DecisionApprove, ReviewerID: 9})
	s.ErrorIs(err, apperrors.ErrDocumentFinalized)

	s.Contains(s.actions(doc.ID), models.AuditActionManualReject)
	s.Equal(1.0, promtest.ToFloat64(s.metrics.Decisions.WithLabelValues(DecisionReject)))
}

func (s *KYCServiceSuite) TestGetDocument_Visibility() {
	doc := s.upload(s.svc, 1, models.DocumentTypePassport, models.DocumentSideSingle)

	view, err := s.svc.GetDocument(s.ctx, doc.ID, models.Principal{UserID: 1})
	s.Require().NoError(err)
	s.Empty(view.Document.Location)
	s.Empty(view.Document.EncryptionIV)
	s.Nil(view.AuditLogs)

	_, err = s.svc.GetDocument(s.ctx, doc.ID, models.Principal{UserID: 2})
	s.ErrorIs(err, apperrors.ErrDocumentAccessDenied)

	view, err = s.svc.GetDocument(s.ctx, doc.ID, models.Principal{UserID: 99, Admin: true})
	s.Require().NoError(err)
	s.Equal(doc.Location, view.Document.Location)
	s.NotEmpty(view.AuditLogs)
}

func (s *KYCServiceSuite) TestDownload() {
	data := pngBytes(800, 600)
	doc, err := s.svc.Upload(s.ctx, UploadRequest{UserID: 1, DocumentType: models.DocumentTypePassport, Filename: "mine.png", Data: data})
	s.Require().NoError(err)
	s.svc.Wait()

	_, err = s.svc.Download(s.ctx, doc.ID, models.Principal{UserID: 1})
	s.ErrorIs(err, apperrors.ErrDocumentAccessDenied)

	f, err := s.svc.Download(s.ctx, doc.ID, models.Principal{UserID: 99, Admin: true})
	s.Require().NoError(err)
	s.Equal(data, f.Data)
	s.Equal("mine.png", f.Name)
	s.Equal("image/png", f.MimeType)
}

func (s *KYCServiceSuite) TestStatus_IdentitySummary() {
	report, err := s.svc.Status(s.ctx, 1)
	s.Require().NoError(err)
	s.Nil(report.Latest)
	s.False(report.Identity.Complete)

	front := s.upload(s.svc, 1, models.DocumentTypeNationalID, models.DocumentSideFront)
	report, err = s.svc.Status(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(models.DocumentStatusPending, report.Identity.NationalIDFront)
	s.False(report.Identity.Complete, "one side is not an identity proof")

	s.upload(s.svc, 1, models.DocumentTypeNationalID, models.DocumentSideBack)
	_, err = s.svc.Decide(s.ctx, DecisionRequest{DocumentID: front.ID, Decision: DecisionApprove, ReviewerID: 9})
	s.Require().NoError(err)

	report, err = s.svc.Status(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(report.Documents, 2)
	s.True(report.Identity.Complete)
	s.False(report.Identity.Verified, "the back is still pending")
	s.Equal(models.DocumentStatusApproved, report.Identity.NationalIDFront)
	s.Empty(report.Documents[0].Location)
}

func (s *KYCServiceSuite) TestSweep_KeepsApproved() {
	old := s.upload(s.svc, 1, models.DocumentTypeNationalID, models.DocumentSideFront)
	kept := s.upload(s.svc, 1, models.DocumentTypeNationalID, models.DocumentSideBack)
	fresh := s.upload(s.svc, 2, models.DocumentTypePassport, models.DocumentSideSingle)
	_, err := s.svc.Decide(s.ctx, DecisionRequest{DocumentID: kept.ID, Decision: DecisionApprove, ReviewerID: 9})
	s.Require().NoError(err)
	s.backdate(old.ID, 31*24*time.Hour)
	s.backdate(kept.ID, 31*24*time.Hour)

	res, err := s.svc.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, res.Deleted)

	_, err = s.docs.GetByID(s.ctx, old.ID)
	s.ErrorIs(err, repositories.ErrDocumentNotFound)
	_, err = s.store.Read(s.ctx, old.Location)
	s.ErrorIs(err, storage.ErrNotFound)
	s.Equal([]models.AuditAction{models.AuditActionDelete}, s.actions(old.ID))

	for _, id := range []string{kept.ID, fresh.ID} {
		_, err = s.docs.GetByID(s.ctx, id)
		s.NoError(err)
	}
	s.Equal(1.0, promtest.ToFloat64(s.metrics.DocumentsSwept))
}

func (s *KYCServiceSuite) TestUpload_BackgroundScoringDetachedFromRequest() {
	recorder := &contextRecorder{}
	svc := NewService(s.docs, s.store, s.cipher, ocr.NewAnalyzer(recorder, nil, nil), s.profiles,
		cache.NewMemoryRateLimiter(), Config{}, s.metrics, nil)

	reqCtx, cancel := context.WithCancel(context.WithValue(s.ctx, requestKey{}, "request-1"))
	_, err := svc.Upload(reqCtx, UploadRequest{
		UserID:       1,
		DocumentType: models.DocumentTypePassport,
		Filename:     "scan.png",
		Data:         pngBytes(800, 600),
	})
	cancel()
	s.Require().NoError(err)
	svc.Wait()

	s.Equal([]interface{}{nil}, recorder.seen)
}

func (s *KYCServiceSuite) TestVerify_RepeatedScoringKeepsPending() {
	doc := s.upload(s.svc, 1, models.DocumentTypePassport, models.DocumentSideSingle)

	for i := 0; i < 3; i++ {
		res, err := s.svc.Verify(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.True(res.ThresholdMet)
		s.GreaterOrEqual(res.Score, DefaultAutoVerifyScore)
		s.Equal(models.DocumentStatusPending, res.Status)
	}

	stored, err := s.docs.GetByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(models.DocumentStatusPending, stored.Status)
	scored := 0
	for _, a := range s.actions(doc.ID) {
		if a == models.AuditActionAutoVerify {
			scored++
		}
	}
	s.Equal(4, scored, "upload scoring plus three reviewer runs")
}

func (s *KYCServiceSuite) TestSweep_InvalidatesCompletion() {
	recorder := &invalidationRecorder{Service: s.profiles}
	svc := NewService(s.docs, s.store, s.cipher, ocr.NewStatic(ocr.StaticEngine{Text: passportText}), recorder,
		cache.NewMemoryRateLimiter(), Config{}, s.metrics, nil)

	old := s.upload(svc, 3, models.DocumentTypeNationalID, models.DocumentSideFront)
	other := s.upload(svc, 3, models.DocumentTypeNationalID, models.DocumentSideBack)
	s.upload(svc, 4, models.DocumentTypePassport, models.DocumentSideSingle)
	s.backdate(old.ID, 31*24*time.Hour)
	s.backdate(other.ID, 31*24*time.Hour)
	recorder.reset()

	res, err := svc.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, res.Deleted)
	s.Equal([]uint{3}, recorder.users, "one invalidation per affected user")
}

func (s *KYCServiceSuite) TestRetryScoring() {
	svc := s.newService(ocr.StaticEngine{}, Config{RetryMaxAttempts: 2})
	doc := s.upload(svc, 1, models.DocumentTypeNationalID, models.DocumentSideFront)
	stale := s.upload(svc, 2, models.DocumentTypePassport, models.DocumentSideSingle)
	s.backdate(stale.ID, 48*time.Hour)

	n, err := svc.RetryScoring(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n, "only the recent document is retried")

	n, err = svc.RetryScoring(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, n, "attempts are exhausted")

	s.Equal([]models.AuditAction{models.AuditActionUpload, models.AuditActionAutoVerify, models.AuditActionAutoVerify}, s.actions(doc.ID))
}
