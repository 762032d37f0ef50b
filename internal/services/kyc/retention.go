package kyc

import (
	"context"
	"errors"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/storage"

	"go.uber.org/zap"
)

// Sweep purges PENDING and REJECTED documents older than the retention
// period. The row is removed first under a status guard, so a document
// approved mid-sweep keeps both its row and its file.
func (s *service) Sweep(ctx context.Context) (*SweepResult, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, -s.config.RetentionDays)
	docs, err := s.repo.ListSweepable(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	res := &SweepResult{Scanned: len(docs)}
	affected := make(map[uint]struct{})
	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		doc := &docs[i]
		audit := &models.KYCAuditLog{
			DocumentID: doc.ID,
			Action:     models.AuditActionDelete,
			Details: models.JSON{
				"reason":        "retention",
				"status":        doc.Status,
				"user_id":       doc.UserID,
				"document_type": doc.DocumentType,
				"document_side": doc.DocumentSide,
				"age_days":      int(now.Sub(doc.CreatedAt) / (24 * time.Hour)),
			},
		}
		deleted, err := s.repo.DeleteSwept(ctx, doc, audit)
		if err != nil {
			res.Failed++
			s.logger.Error("failed to sweep document", zap.String("document_id", doc.ID), zap.Error(err))
			continue
		}
		if !deleted {
			continue
		}
		if err := s.store.Delete(ctx, doc.Location); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("swept document file could not be removed",
				zap.String("document_id", doc.ID),
				zap.String("location", doc.Location),
				zap.Error(err))
		}
		res.Deleted++
		affected[doc.UserID] = struct{}{}
	}
	for userID := range affected {
		s.profiles.InvalidateCompletion(ctx, userID)
	}

	s.metrics.AddSwept(res.Deleted)
	s.logger.Info("retention sweep finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("deleted", res.Deleted),
		zap.Int("failed", res.Failed),
		zap.Time("cutoff", cutoff))
	return res, ctx.Err()
}
