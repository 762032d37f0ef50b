package kyc

import (
	"time"

	"brokerage/internal/models"
)

type Config struct {
	MaxFileSize        int64
	UploadsPerHour     int
	RejectCommentMin   int
	AutoVerifyScore    int
	RetentionDays      int
	RetryMaxAttempts   int
	RetryWindow        time.Duration
	ScoringConcurrency int
	ScoringTimeout     time.Duration
}

// Default configuration values
const (
	DefaultMaxFileSize        = 5 * 1024 * 1024
	DefaultUploadsPerHour     = 5
	DefaultRejectCommentMin   = 10
	DefaultAutoVerifyScore    = 70
	DefaultRetentionDays      = 30
	DefaultRetryMaxAttempts   = 3
	DefaultRetryWindow        = 24 * time.Hour
	DefaultScoringConcurrency = 4
	DefaultScoringTimeout     = 2 * time.Minute
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

type UploadRequest struct {
	UserID       uint
	DocumentType models.DocumentType
	Side         models.DocumentSide
	Filename     string
	Data         []byte
	Meta         models.RequestMeta
}

type DecisionRequest struct {
	DocumentID string
	Decision   string
	ReviewerID uint
	Comment    string
	Meta       models.RequestMeta
}

type ScoreResult struct {
	DocumentID    string                `json:"document_id"`
	Score         int                   `json:"score"`
	ThresholdMet  bool                  `json:"threshold_met"`
	Status        models.DocumentStatus `json:"status"`
	ExtractedData models.JSON           `json:"extracted_data"`
	AutoFilled    []string              `json:"auto_filled,omitempty"`
}

// IdentityStatus is the status of the newest document for each identity variant.
type IdentityStatus struct {
	Passport        models.DocumentStatus `json:"passport,omitempty"`
	NationalIDFront models.DocumentStatus `json:"national_id_front,omitempty"`
	NationalIDBack  models.DocumentStatus `json:"national_id_back,omitempty"`
	NationalID      models.DocumentStatus `json:"national_id,omitempty"`
	Complete        bool                  `json:"complete"`
	Verified        bool                  `json:"verified"`
}

type StatusReport struct {
	Latest    *models.KYCDocument  `json:"latest,omitempty"`
	Documents []models.KYCDocument `json:"documents"`
	Identity  IdentityStatus       `json:"identity"`
}

type DocumentView struct {
	Document  models.KYCDocument   `json:"document"`
	AuditLogs []models.KYCAuditLog `json:"audit_logs,omitempty"`
}

// File is a decrypted document ready to be streamed to a reviewer.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

type SweepResult struct {
	Scanned int `json:"scanned"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
