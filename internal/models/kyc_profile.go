package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type ProfileStatus string

const (
	ProfileStatusDraft     ProfileStatus = "DRAFT"
	ProfileStatusSubmitted ProfileStatus = "SUBMITTED"
	ProfileStatusApproved  ProfileStatus = "APPROVED"
	ProfileStatusRejected  ProfileStatus = "REJECTED"
)

// KYCProfile is a user's declared compliance and financial profile.
type KYCProfile struct {
	ID     string `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex;not null" json:"user_id"`

	// Personal
	FirstName          string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName           string     `gorm:"type:varchar(100)" json:"last_name"`
	DateOfBirth        *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	PlaceOfBirth       string     `gorm:"type:varchar(100)" json:"place_of_birth"`
	Gender             string     `gorm:"type:varchar(10)" json:"gender"`
	Nationality        string     `gorm:"type:varchar(100)" json:"nationality"`
	CountryOfResidence string     `gorm:"type:varchar(100)" json:"country_of_residence"`
	DocumentNumber     string     `gorm:"type:varchar(50)" json:"document_number"`
	AddressLine1       string     `gorm:"type:varchar(255)" json:"address_line1"`
	AddressLine2       string     `gorm:"type:varchar(255)" json:"address_line2"`
	City               string     `gorm:"type:varchar(100)" json:"city"`
	State              string     `gorm:"type:varchar(100)" json:"state"`
	PostalCode         string     `gorm:"type:varchar(20)" json:"postal_code"`
	Country            string     `gorm:"type:varchar(100)" json:"country"`

	// Contact
	PhoneCountry  string `gorm:"type:varchar(8)" json:"phone_country"`
	PhoneNumber   string `gorm:"type:varchar(20)" json:"phone_number"`
	MobileCountry string `gorm:"type:varchar(8)" json:"mobile_country"`
	MobileNumber  string `gorm:"type:varchar(20)" json:"mobile_number"`

	// Employment and financial
	EmploymentStatus   string          `gorm:"type:varchar(20)" json:"employment_status"`
	Occupation         string          `gorm:"type:varchar(100)" json:"occupation"`
	EmployerName       string          `gorm:"type:varchar(100)" json:"employer_name"`
	EmployerAddress    string          `gorm:"type:varchar(255)" json:"employer_address"`
	EmployerPhone      string          `gorm:"type:varchar(20)" json:"employer_phone"`
	YearsInEmployment  int             `json:"years_in_employment"`
	MonthlyIncome      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"monthly_income"`
	AnnualIncome       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"annual_income"`
	IncomeCurrency     string          `gorm:"type:varchar(10);default:'USD'" json:"income_currency"`
	SourceOfFunds      string          `gorm:"type:varchar(20)" json:"source_of_funds"`
	OtherSourceOfFunds string          `gorm:"type:varchar(255)" json:"other_source_of_funds"`

	// Trading experience
	TradingExperienceYears int    `json:"trading_experience_years"`
	TradingExperienceLevel string `gorm:"type:varchar(20)" json:"trading_experience_level"`
	InvestmentKnowledge    string `gorm:"type:varchar(20)" json:"investment_knowledge"`
	RiskTolerance          string `gorm:"type:varchar(10)" json:"risk_tolerance"`

	// Regulatory
	PoliticallyExposedPerson bool   `json:"politically_exposed_person"`
	PEPDetails               string `gorm:"type:text" json:"pep_details"`
	USCitizenOrResident      bool   `json:"us_citizen_or_resident"`
	TaxIdentificationNumber  string `gorm:"type:varchar(50)" json:"tax_identification_number"`
	SocialSecurityNumber     string `gorm:"type:varchar(255)" json:"-"`

	// Account purpose
	AccountPurpose            string          `gorm:"type:varchar(20)" json:"account_purpose"`
	OtherAccountPurpose       string          `gorm:"type:varchar(255)" json:"other_account_purpose"`
	EstimatedAnnualDeposit    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"estimated_annual_deposit"`
	EstimatedAnnualWithdrawal decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"estimated_annual_withdrawal"`

	ProofOfAddressUploaded bool `json:"proof_of_address_uploaded"`
	ProofOfIncomeUploaded  bool `json:"proof_of_income_uploaded"`

	AutoFilledFields pq.StringArray `gorm:"type:text" json:"auto_filled_fields"`

	Status      ProfileStatus `gorm:"type:varchar(20);index;not null;default:'DRAFT'" json:"status"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	ReviewedBy  *uint         `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
	ReviewNotes string        `gorm:"type:text" json:"review_notes,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (KYCProfile) TableName() string { return "kyc_profiles" }

// Editable reports whether the owner may still change the profile.
// A rejected profile reopens for corrections.
func (p *KYCProfile) Editable() bool {
	return p.Status == ProfileStatusDraft || p.Status == ProfileStatusRejected
}
