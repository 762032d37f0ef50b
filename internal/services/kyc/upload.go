package kyc

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"
	"brokerage/internal/storage"

	"go.uber.org/zap"
)

const (
	mimeJPEG = "image/jpeg"
	mimePNG  = "image/png"
	mimePDF  = "application/pdf"

	maxFilenameLength = 255
)

// allowedTypes maps sniffed content types to the extension stored on disk.
var allowedTypes = map[string]string{
	mimeJPEG: ".jpg",
	mimePNG:  ".png",
	mimePDF:  ".pdf",
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Upload validates, encrypts and stores a document, then schedules scoring.
// The returned document has not been scored yet.
func (s *service) Upload(ctx context.Context, req UploadRequest) (*models.KYCDocument, error) {
	if req.Side == "" && req.DocumentType == models.DocumentTypePassport {
		req.Side = models.DocumentSideSingle
	}
	if !models.ValidDocumentSide(req.DocumentType, req.Side) {
		return nil, apperrors.ErrInvalidDocumentType
	}
	if len(req.Data) == 0 {
		return nil, apperrors.ErrFileRequired
	}
	if int64(len(req.Data)) > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]interface{}{"max_bytes": s.config.MaxFileSize})
	}

	mimeType := http.DetectContentType(req.Data)
	ext, ok := allowedTypes[mimeType]
	if !ok {
		return nil, apperrors.ErrUnsupportedFileType
	}
	if given := strings.ToLower(filepath.Ext(req.Filename)); given != "" && !allowedExtensions[given] {
		return nil, apperrors.ErrUnsupportedFileType
	}

	if err := s.checkRateLimit(ctx, req.UserID); err != nil {
		return nil, err
	}

	active, err := s.repo.HasActive(ctx, req.UserID, req.DocumentType, req.Side)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.ErrActiveSubmission.WithDetails(map[string]interface{}{
			"document_type": req.DocumentType,
			"document_side": req.Side,
		})
	}

	sealed, err := s.cipher.Encrypt(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt document: %w", err)
	}
	location, err := s.store.Save(ctx, storage.GenerateName(req.UserID, string(req.Side), ext), sealed.Ciphertext)
	if err != nil {
		s.logger.Error("document storage failed", zap.Uint("user_id", req.UserID), zap.Error(err))
		return nil, apperrors.ErrStorageFailure
	}

	doc := &models.KYCDocument{
		UserID:           req.UserID,
		DocumentType:     req.DocumentType,
		DocumentSide:     req.Side,
		OriginalFilename: cleanFilename(req.Filename),
		MimeType:         mimeType,
		FileSize:         int64(len(req.Data)),
		Location:         location,
		EncryptionIV:     sealed.IV,
		AuthTag:          sealed.AuthTag,
		Status:           models.DocumentStatusPending,
	}
	userID := req.UserID
	audit := &models.KYCAuditLog{
		UserID: &userID,
		Action: models.AuditActionUpload,
		Details: models.JSON{
			"document_type": req.DocumentType,
			"document_side": req.Side,
			"mime_type":     mimeType,
			"file_size":     doc.FileSize,
		},
		IPAddress: req.Meta.IPAddress,
		UserAgent: req.Meta.UserAgent,
	}
	if err := s.repo.Create(ctx, doc, audit); err != nil {
		if delErr := s.store.Delete(ctx, location); delErr != nil {
			s.logger.Error("failed to remove orphaned document file",
				zap.String("location", location), zap.Error(delErr))
		}
		return nil, err
	}

	s.metrics.IncUpload(string(doc.DocumentType), string(doc.DocumentSide))
	s.profiles.InvalidateCompletion(ctx, req.UserID)
	s.logger.Info("document uploaded",
		zap.String("document_id", doc.ID),
		zap.Uint("user_id", req.UserID),
		zap.String("document_type", string(doc.DocumentType)),
		zap.String("document_side", string(doc.DocumentSide)))

	s.scheduleScoring(doc.ID)
	return doc, nil
}

// checkRateLimit fails open when the limiter itself errors.
func (s *service) checkRateLimit(ctx context.Context, userID uint) error {
	if s.limiter == nil {
		return nil
	}
	allowed, err := s.limiter.Allow(ctx, fmt.Sprintf("kyc_upload:%d", userID), s.config.UploadsPerHour, time.Hour)
	if err != nil {
		s.logger.Warn("upload rate limiter unavailable", zap.Uint("user_id", userID), zap.Error(err))
		return nil
	}
	if !allowed {
		return apperrors.ErrUploadRateLimited
	}
	return nil
}

func cleanFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	if len(name) > maxFilenameLength {
		name = name[len(name)-maxFilenameLength:]
	}
	return name
}
