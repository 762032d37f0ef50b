package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brokerage/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.KYCDocument, audit *models.KYCAuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return fmt.Errorf("failed to create document: %w", err)
		}
		if audit != nil {
			audit.DocumentID = doc.ID
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write audit log: %w", err)
			}
		}
		return nil
	})
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uint) ([]models.KYCDocument, error) {
	var docs []models.KYCDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) HasActive(ctx context.Context, userID uint, docType models.DocumentType, side models.DocumentSide) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.KYCDocument{}).
		Where("user_id = ? AND document_type = ? AND document_side = ? AND status IN ?",
			userID, docType, side, models.ActiveDocumentStatuses).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check active documents: %w", err)
	}
	return count > 0, nil
}

// LatestWithPersonalInfo returns the newest scored front or passport document.
func (r *documentRepository) LatestWithPersonalInfo(ctx context.Context, userID uint) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND extracted_data IS NOT NULL", userID).
		Where("document_type = ? OR document_side = ?", models.DocumentTypePassport, models.DocumentSideFront).
		Where("status <> ?", models.DocumentStatusRejected).
		Order("created_at DESC").
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &doc, nil
}

// UpdateScore touches only the extracted data and score; status is left alone.
func (r *documentRepository) UpdateScore(ctx context.Context, id string, extracted models.JSON, score int, audit *models.KYCAuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.KYCDocument{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"extracted_data": extracted,
				"auto_score":     score,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update score: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrDocumentNotFound
		}
		if audit != nil {
			audit.DocumentID = id
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write audit log: %w", err)
			}
		}
		return nil
	})
}

func (r *documentRepository) Decide(ctx context.Context, id string, status models.DocumentStatus, reviewerID uint, comment string, audit *models.KYCAuditLog) (*models.KYCDocument, error) {
	var doc models.KYCDocument
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&doc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDocumentNotFound
			}
			return err
		}
		if doc.IsFinal() {
			return ErrDocumentFinalized
		}

		now := time.Now()
		doc.Status = status
		doc.ReviewedBy = &reviewerID
		doc.ReviewedAt = &now
		doc.ReviewComment = comment

		if err := tx.Model(&doc).Updates(map[string]interface{}{
			"status":         status,
			"reviewed_by":    reviewerID,
			"reviewed_at":    now,
			"review_comment": comment,
		}).Error; err != nil {
			return fmt.Errorf("failed to update document: %w", err)
		}

		if audit != nil {
			audit.DocumentID = id
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write audit log: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) AppendAudit(ctx context.Context, audit *models.KYCAuditLog) error {
	if err := r.db.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (r *documentRepository) AuditLogs(ctx context.Context, documentID string) ([]models.KYCAuditLog, error) {
	var logs []models.KYCAuditLog
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get audit logs: %w", err)
	}
	return logs, nil
}

func (r *documentRepository) ListSweepable(ctx context.Context, cutoff time.Time) ([]models.KYCDocument, error) {
	var docs []models.KYCDocument
	err := r.db.WithContext(ctx).
		Where("status IN ? AND created_at < ?", models.SweepableDocumentStatuses, cutoff).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expired documents: %w", err)
	}
	return docs, nil
}

// DeleteSwept removes the document and its audit trail, then records the deletion.
// The status guard is repeated in the delete so a document approved after
// ListSweepable is never removed; false means nothing was deleted.
func (r *documentRepository) DeleteSwept(ctx context.Context, doc *models.KYCDocument, audit *models.KYCAuditLog) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND status IN ?", doc.ID, models.SweepableDocumentStatuses).
			Delete(&models.KYCDocument{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete document: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Where("document_id = ?", doc.ID).Delete(&models.KYCAuditLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete audit logs: %w", err)
		}
		if audit != nil {
			audit.DocumentID = doc.ID
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write audit log: %w", err)
			}
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *documentRepository) ListRetryCandidates(ctx context.Context, since time.Time, belowScore, maxAttempts int) ([]models.KYCDocument, error) {
	var docs []models.KYCDocument
	err := r.db.WithContext(ctx).
		Where("status = ? AND auto_score < ? AND created_at >= ?", models.DocumentStatusPending, belowScore, since).
		Where("(SELECT COUNT(*) FROM kyc_audit_logs a WHERE a.document_id = kyc_documents.id AND a.action = ?) < ?",
			models.AuditActionAutoVerify, maxAttempts).
		Order("created_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list retry candidates: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) ListPending(ctx context.Context, limit, offset int) ([]models.KYCDocument, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.KYCDocument{}).
		Where("status IN ?", []models.DocumentStatus{models.DocumentStatusPending, models.DocumentStatusAutoVerified})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending documents: %w", err)
	}

	var docs []models.KYCDocument
	if err := q.Order("created_at ASC").Limit(limit).Offset(offset).Find(&docs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pending documents: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepository) Stats(ctx context.Context) (*DocumentStats, error) {
	db := r.db.WithContext(ctx)
	stats := &DocumentStats{
		ByStatus: make(map[models.DocumentStatus]int64),
		ByType:   make(map[models.DocumentType]int64),
	}

	var byStatus []struct {
		Status models.DocumentStatus
		Count  int64
	}
	if err := db.Model(&models.KYCDocument{}).Select("status, COUNT(*) AS count").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
	}

	var byType []struct {
		DocumentType models.DocumentType
		Count        int64
	}
	if err := db.Model(&models.KYCDocument{}).Select("document_type, COUNT(*) AS count").Group("document_type").Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate types: %w", err)
	}
	for _, row := range byType {
		stats.ByType[row.DocumentType] = row.Count
	}

	var avg sql.NullFloat64
	if err := db.Model(&models.KYCDocument{}).Select("AVG(auto_score)").Row().Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	stats.AverageScore = avg.Float64

	if err := db.Model(&models.KYCDocument{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -7)).
		Count(&stats.LastSevenDays).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent documents: %w", err)
	}
	return stats, nil
}
