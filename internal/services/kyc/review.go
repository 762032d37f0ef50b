package kyc

import (
	"context"
	"strings"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"

	"go.uber.org/zap"
)

// Decide records a reviewer's approve or reject. A decided document cannot be decided again.
func (s *service) Decide(ctx context.Context, req DecisionRequest) (*models.KYCDocument, error) {
	comment := strings.TrimSpace(req.Comment)

	var (
		status models.DocumentStatus
		action models.AuditAction
	)
	switch req.Decision {
	case DecisionApprove:
		status, action = models.DocumentStatusApproved, models.AuditActionManualApprove
	case DecisionReject:
		if len(comment) < s.config.RejectCommentMin {
			return nil, apperrors.ErrCommentRequired.WithMessage(
				"a rejection comment of at least %d characters is required", s.config.RejectCommentMin)
		}
		status, action = models.DocumentStatusRejected, models.AuditActionManualReject
	default:
		return nil, apperrors.ErrInvalidDecision
	}

	reviewer := req.ReviewerID
	audit := &models.KYCAuditLog{
		UserID:    &reviewer,
		Action:    action,
		Details:   models.JSON{"comment": comment, "status": status},
		IPAddress: req.Meta.IPAddress,
		UserAgent: req.Meta.UserAgent,
	}
	doc, err := s.repo.Decide(ctx, req.DocumentID, status, req.ReviewerID, comment, audit)
	if err != nil {
		return nil, mapDocumentError(err)
	}

	s.metrics.IncDecision(req.Decision)
	s.profiles.InvalidateCompletion(ctx, doc.UserID)
	s.logger.Info("document reviewed",
		zap.String("document_id", doc.ID),
		zap.Uint("reviewer_id", req.ReviewerID),
		zap.String("status", string(status)))
	return doc, nil
}
