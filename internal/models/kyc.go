package models

import (
	"time"
)

type DocumentType string

const (
	DocumentTypePassport   DocumentType = "passport"
	DocumentTypeNationalID DocumentType = "national_id"
)

type DocumentSide string

const (
	DocumentSideFront  DocumentSide = "front"
	DocumentSideBack   DocumentSide = "back"
	DocumentSideSingle DocumentSide = "single"
)

type DocumentStatus string

const (
	DocumentStatusPending      DocumentStatus = "PENDING"
	DocumentStatusAutoVerified DocumentStatus = "AUTO_VERIFIED"
	DocumentStatusApproved     DocumentStatus = "APPROVED"
	DocumentStatusRejected     DocumentStatus = "REJECTED"
)

// ActiveDocumentStatuses block a new submission for the same type and side.
var ActiveDocumentStatuses = []DocumentStatus{
	DocumentStatusPending,
	DocumentStatusAutoVerified,
	DocumentStatusApproved,
}

// SweepableDocumentStatuses may be purged by the retention job.
var SweepableDocumentStatuses = []DocumentStatus{
	DocumentStatusPending,
	DocumentStatusRejected,
}

// Identity is the tagged form of a document's type and side.
type Identity string

const (
	IdentityPassport        Identity = "passport"
	IdentityNationalIDFront Identity = "national_id_front"
	IdentityNationalIDBack  Identity = "national_id_back"
	// IdentityNationalIDLegacy is a single-file national ID from before sides were tracked.
	IdentityNationalIDLegacy Identity = "national_id"
)

// ValidDocumentSide reports whether side is accepted for new uploads of docType.
func ValidDocumentSide(docType DocumentType, side DocumentSide) bool {
	switch docType {
	case DocumentTypePassport:
		return side == DocumentSideSingle || side == DocumentSideFront
	case DocumentTypeNationalID:
		return side == DocumentSideFront || side == DocumentSideBack
	}
	return false
}

type KYCDocument struct {
	ID               string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID           uint           `gorm:"index;not null" json:"user_id"`
	DocumentType     DocumentType   `gorm:"type:varchar(32);not null" json:"document_type"`
	DocumentSide     DocumentSide   `gorm:"type:varchar(16);not null;default:'single'" json:"document_side"`
	OriginalFilename string         `gorm:"type:varchar(255)" json:"original_filename"`
	MimeType         string         `gorm:"type:varchar(64)" json:"mime_type"`
	FileSize         int64          `json:"file_size"`
	Location         string         `gorm:"type:varchar(512);not null" json:"location,omitempty"`
	EncryptionIV     string         `gorm:"type:varchar(64)" json:"iv,omitempty"`
	AuthTag          string         `gorm:"type:varchar(64)" json:"auth_tag,omitempty"`
	Status           DocumentStatus `gorm:"type:varchar(20);index;not null;default:'PENDING'" json:"status"`
	ExtractedData    JSON           `gorm:"type:jsonb" json:"extracted_data,omitempty"`
	AutoScore        int            `gorm:"default:0" json:"auto_score"`
	ReviewedBy       *uint          `json:"reviewed_by,omitempty"`
	ReviewedAt       *time.Time     `json:"reviewed_at,omitempty"`
	ReviewComment    string         `gorm:"type:text" json:"review_comment,omitempty"`
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (KYCDocument) TableName() string { return "kyc_documents" }

// Identity maps the stored type and side to the identity variant it proves.
func (d *KYCDocument) Identity() Identity {
	if d.DocumentType == DocumentTypePassport {
		return IdentityPassport
	}
	switch d.DocumentSide {
	case DocumentSideFront:
		return IdentityNationalIDFront
	case DocumentSideBack:
		return IdentityNationalIDBack
	default:
		return IdentityNationalIDLegacy
	}
}

// IsFinal reports whether a reviewer has decided the document.
func (d *KYCDocument) IsFinal() bool {
	return d.Status == DocumentStatusApproved || d.Status == DocumentStatusRejected
}

// HasEncryption reports whether the IV and tag are both present.
func (d *KYCDocument) HasEncryption() bool {
	return d.EncryptionIV != "" && d.AuthTag != ""
}

// Redacted returns a copy without storage and review internals, for owners.
func (d KYCDocument) Redacted() KYCDocument {
	d.Location = ""
	d.EncryptionIV = ""
	d.AuthTag = ""
	d.ReviewedBy = nil
	return d
}

type AuditAction string

const (
	AuditActionUpload        AuditAction = "UPLOAD"
	AuditActionAutoVerify    AuditAction = "AUTO_VERIFY"
	AuditActionManualApprove AuditAction = "MANUAL_APPROVE"
	AuditActionManualReject  AuditAction = "MANUAL_REJECT"
	AuditActionDelete        AuditAction = "DELETE"
	AuditActionAutoFill      AuditAction = "AUTO_FILL"
)

// KYCAuditLog is append-only. DocumentID carries no foreign key so the
// DELETE entry written by the retention sweep can outlive its document.
type KYCAuditLog struct {
	ID         string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	DocumentID string      `gorm:"type:varchar(36);index;not null" json:"document_id"`
	UserID     *uint       `json:"user_id,omitempty"`
	Action     AuditAction `gorm:"type:varchar(32);index;not null" json:"action"`
	Details    JSON        `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress  string      `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent  string      `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (KYCAuditLog) TableName() string { return "kyc_audit_logs" }

// RequestMeta carries requester details for audit entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// IdentityCoverage records which identity variants a set of documents provides.
type IdentityCoverage struct {
	Passport bool
	Front    bool
	Back     bool
	Legacy   bool
}

// CoverageOf folds docs that pass include into an IdentityCoverage.
// A nil include accepts every document.
func CoverageOf(docs []KYCDocument, include func(*KYCDocument) bool) IdentityCoverage {
	var c IdentityCoverage
	for i := range docs {
		d := &docs[i]
		if include != nil && !include(d) {
			continue
		}
		switch d.Identity() {
		case IdentityPassport:
			c.Passport = true
		case IdentityNationalIDFront:
			c.Front = true
		case IdentityNationalIDBack:
			c.Back = true
		case IdentityNationalIDLegacy:
			c.Legacy = true
		}
	}
	return c
}

// Complete is true for a passport, a legacy single national ID, or both national ID sides.
func (c IdentityCoverage) Complete() bool {
	return c.Passport || c.Legacy || (c.Front && c.Back)
}

// Partial is true when exactly one national ID side is present.
func (c IdentityCoverage) Partial() bool {
	return !c.Complete() && (c.Front || c.Back)
}
