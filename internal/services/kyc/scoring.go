package kyc

import (
	"context"

	"brokerage/internal/models"
	"brokerage/internal/services/extraction"
	"brokerage/internal/services/ocr"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// scheduleScoring scores docID in the background. At most
// ScoringConcurrency documents are scored at once. The run never sees the
// caller's context: request contexts are recycled once the handler returns.
func (s *service) scheduleScoring(docID string) {
	s.scoring.Add(1)
	go func() {
		defer s.scoring.Done()
		s.slots <- struct{}{}
		defer func() { <-s.slots }()

		ctx, cancel := context.WithTimeout(s.background, s.config.ScoringTimeout)
		defer cancel()
		if _, err := s.Score(ctx, docID); err != nil {
			s.logger.Warn("background scoring failed", zap.String("document_id", docID), zap.Error(err))
		}
	}()
}

func (s *service) Wait() {
	s.scoring.Wait()
}

// Verify re-scores a document synchronously for a reviewer.
func (s *service) Verify(ctx context.Context, id string) (*ScoreResult, error) {
	return s.Score(ctx, id)
}

// Score runs extraction over a stored document and records the result. The
// document status is never changed here. Failures are written to the audit
// trail before being returned.
func (s *service) Score(ctx context.Context, id string) (*ScoreResult, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapDocumentError(err)
	}

	started := s.now()
	data, err := s.readDocument(ctx, doc)
	if err != nil {
		s.recordScoringFailure(ctx, doc, err)
		return nil, err
	}

	score, fields, info := s.analyze(ctx, doc, data)
	thresholdMet := score >= s.config.AutoVerifyScore

	audit := &models.KYCAuditLog{
		DocumentID: doc.ID,
		UserID:     &doc.UserID,
		Action:     models.AuditActionAutoVerify,
		Details: models.JSON{
			"score":          score,
			"threshold":      s.config.AutoVerifyScore,
			"threshold_met":  thresholdMet,
			"extracted_data": fields,
		},
	}
	if err := s.repo.UpdateScore(ctx, doc.ID, fields, score, audit); err != nil {
		err = mapDocumentError(err)
		s.recordScoringFailure(ctx, doc, err)
		return nil, err
	}
	s.metrics.ObserveScore(score, s.now().Sub(started))

	result := &ScoreResult{
		DocumentID:    doc.ID,
		Score:         score,
		ThresholdMet:  thresholdMet,
		Status:        doc.Status,
		ExtractedData: fields,
	}

	if !info.Empty() && (doc.DocumentSide == models.DocumentSideFront || doc.DocumentType == models.DocumentTypePassport) {
		result.AutoFilled = s.autoFill(ctx, doc, info)
	}
	s.profiles.InvalidateCompletion(ctx, doc.UserID)

	s.logger.Info("document scored",
		zap.String("document_id", doc.ID),
		zap.Int("score", score),
		zap.Bool("threshold_met", thresholdMet))
	return result, nil
}

// analyze combines file signals with the text rules into one score and blob.
func (s *service) analyze(ctx context.Context, doc *models.KYCDocument, data []byte) (int, models.JSON, extraction.PersonalInfo) {
	isPDF := doc.MimeType == mimePDF
	sig := extraction.Signals{IsPDF: isPDF}
	if !isPDF {
		sig.Width, sig.Height, _ = ocr.Dimensions(data)
		if doc.DocumentSide == models.DocumentSideFront || doc.DocumentType == models.DocumentTypePassport {
			face, err := s.analyzer.Face.DetectFace(ctx, data)
			if err != nil {
				s.logger.Warn("face detection failed", zap.String("document_id", doc.ID), zap.Error(err))
			}
			sig.HasFace = face
		}
	}
	if doc.DocumentSide == models.DocumentSideBack {
		barcode, err := s.analyzer.Barcode.DetectBarcode(ctx, data)
		if err != nil {
			s.logger.Warn("barcode detection failed", zap.String("document_id", doc.ID), zap.Error(err))
		}
		sig.HasBarcode = barcode
	}

	signals := extraction.ScoreSignals(sig, doc.DocumentType, doc.DocumentSide)
	score := signals.Score
	fields := signals.Fields

	var info extraction.PersonalInfo
	text, err := s.analyzer.Text.ExtractText(ctx, data)
	if err != nil {
		s.logger.Warn("text extraction failed", zap.String("document_id", doc.ID), zap.Error(err))
		fields["ocr_error"] = "failed to process text"
		return score, fields, info
	}

	fields["ocr_text"] = extraction.TruncateText(text)
	extracted := extraction.Extract(text, doc.DocumentType, doc.DocumentSide)
	score += extracted.Score
	for k, v := range extracted.Fields {
		fields[k] = v
	}

	info = extraction.ExtractPersonalInfo(text, doc.DocumentType)
	if !info.Empty() {
		personal := make(map[string]interface{})
		for k, v := range info.Map() {
			personal[k] = v
		}
		fields["personal_info"] = personal
	}
	return score, fields, info
}

// autoFill feeds extracted personal fields to the profile and audits what was written.
func (s *service) autoFill(ctx context.Context, doc *models.KYCDocument, info extraction.PersonalInfo) []string {
	res, err := s.profiles.AutoFill(ctx, doc.UserID, info)
	if err != nil {
		s.logger.Warn("profile auto-fill failed", zap.String("document_id", doc.ID), zap.Error(err))
		return nil
	}
	if len(res.Fields) == 0 {
		return nil
	}

	audit := &models.KYCAuditLog{
		DocumentID: doc.ID,
		Action:     models.AuditActionAutoFill,
		Details: models.JSON{
			"profile_created": res.Created,
			"fields":          res.Fields,
		},
	}
	if err := s.repo.AppendAudit(ctx, audit); err != nil {
		s.logger.Warn("failed to audit auto-fill", zap.String("document_id", doc.ID), zap.Error(err))
	}
	return res.Fields
}

func (s *service) recordScoringFailure(ctx context.Context, doc *models.KYCDocument, cause error) {
	s.metrics.IncScoringFailure()
	audit := &models.KYCAuditLog{
		DocumentID: doc.ID,
		Action:     models.AuditActionAutoVerify,
		Details:    models.JSON{"error": cause.Error()},
	}
	if err := s.repo.AppendAudit(ctx, audit); err != nil {
		s.logger.Warn("failed to audit scoring failure", zap.String("document_id", doc.ID), zap.Error(err))
	}
}

// RetryScoring re-scores recent low-score PENDING documents that have not
// exhausted their attempts. It returns how many were re-scored successfully.
func (s *service) RetryScoring(ctx context.Context) (int, error) {
	since := s.now().Add(-s.config.RetryWindow)
	docs, err := s.repo.ListRetryCandidates(ctx, since, s.config.AutoVerifyScore, s.config.RetryMaxAttempts)
	if err != nil {
		return 0, err
	}

	results := make([]bool, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.ScoringConcurrency)
	for i := range docs {
		i, id := i, docs[i].ID
		g.Go(func() error {
			if _, err := s.Score(gctx, id); err != nil {
				s.logger.Warn("retry scoring failed", zap.String("document_id", id), zap.Error(err))
				return nil
			}
			results[i] = true
			return nil
		})
	}
	_ = g.Wait()

	retried := 0
	for _, ok := range results {
		if ok {
			retried++
		}
	}
	s.logger.Info("scoring retry finished",
		zap.Int("candidates", len(docs)),
		zap.Int("retried", retried),
		zap.Duration("window", s.config.RetryWindow))
	return retried, nil
}
