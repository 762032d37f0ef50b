package profile

import (
	"time"

	"brokerage/internal/models"
)

type Config struct {
	CompletionTTL  time.Duration
	ReviewNotesMin int
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

type SaveResult struct {
	Profile *models.KYCProfile `json:"profile"`
	Action  string             `json:"action"`
}

// Completion step keys
const (
	StepPersonal   = "personal_info"
	StepContact    = "contact_info"
	StepFinancial  = "financial_info"
	StepExperience = "experience_purpose"
	StepIdentity   = "id_verification"
)

// Next actions, in priority order
const (
	NextFillProfile     = "fill_profile"
	NextAddPhone        = "add_phone"
	NextUploadID        = "upload_id"
	NextUploadIDFront   = "upload_id_front"
	NextUploadIDBack    = "upload_id_back"
	NextSubmitProfile   = "submit_profile"
	NextUpdateProfile   = "update_profile"
	NextWaitForApproval = "wait_for_approval"
	NextNone            = "none"
)

type Step struct {
	Key      string `json:"key"`
	Weight   int    `json:"weight"`
	Earned   int    `json:"earned"`
	Complete bool   `json:"complete"`
}

// Completion is the weighted progress of a user's onboarding.
type Completion struct {
	Percentage     int                   `json:"percentage"`
	Steps          []Step                `json:"steps"`
	NextAction     string                `json:"next_action"`
	CanTrade       bool                  `json:"can_trade"`
	CanDeposit     bool                  `json:"can_deposit"`
	ProfileStatus  models.ProfileStatus  `json:"profile_status,omitempty"`
	DocumentStatus models.DocumentStatus `json:"document_status,omitempty"`
	Identity       IdentitySummary       `json:"identity"`
}

type IdentitySummary struct {
	Passport        bool `json:"passport"`
	NationalIDFront bool `json:"national_id_front"`
	NationalIDBack  bool `json:"national_id_back"`
	Complete        bool `json:"complete"`
}

type AutoFillResult struct {
	Created bool     `json:"created"`
	Fields  []string `json:"fields"`
}

type Suggestions struct {
	Available    bool                `json:"available"`
	Suggestions  map[string]string   `json:"suggestions"`
	DocumentType models.DocumentType `json:"document_type,omitempty"`
	DocumentID   string              `json:"document_id,omitempty"`
	Source       string              `json:"source"`
	Confidence   string              `json:"confidence"`
}
