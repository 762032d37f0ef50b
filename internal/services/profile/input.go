package profile

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"brokerage/internal/models"
	"brokerage/internal/validation"
)

const dateLayout = "2006-01-02"

// Input is a partial profile update. Nil pointers and blank strings are
// ignored, so a save never clears a stored value.
type Input struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	DateOfBirth        *string `json:"date_of_birth"`
	PlaceOfBirth       *string `json:"place_of_birth"`
	Gender             *string `json:"gender"`
	Nationality        *string `json:"nationality"`
	CountryOfResidence *string `json:"country_of_residence"`
	DocumentNumber     *string `json:"document_number"`
	AddressLine1       *string `json:"address_line1"`
	AddressLine2       *string `json:"address_line2"`
	City               *string `json:"city"`
	State              *string `json:"state"`
	PostalCode         *string `json:"postal_code"`
	Country            *string `json:"country"`

	PhoneCountry  *string `json:"phone_country"`
	PhoneNumber   *string `json:"phone_number"`
	MobileCountry *string `json:"mobile_country"`
	MobileNumber  *string `json:"mobile_number"`

	EmploymentStatus   *string          `json:"employment_status"`
	Occupation         *string          `json:"occupation"`
	EmployerName       *string          `json:"employer_name"`
	EmployerAddress    *string          `json:"employer_address"`
	EmployerPhone      *string          `json:"employer_phone"`
	YearsInEmployment  *int             `json:"years_in_employment"`
	MonthlyIncome      *decimal.Decimal `json:"monthly_income"`
	AnnualIncome       *decimal.Decimal `json:"annual_income"`
	IncomeCurrency     *string          `json:"income_currency"`
	SourceOfFunds      *string          `json:"source_of_funds"`
	OtherSourceOfFunds *string          `json:"other_source_of_funds"`

	TradingExperienceYears *int    `json:"trading_experience_years"`
	TradingExperienceLevel *string `json:"trading_experience_level"`
	InvestmentKnowledge    *string `json:"investment_knowledge"`
	RiskTolerance          *string `json:"risk_tolerance"`

	PoliticallyExposedPerson *bool   `json:"politically_exposed_person"`
	PEPDetails               *string `json:"pep_details"`
	USCitizenOrResident      *bool   `json:"us_citizen_or_resident"`
	TaxIdentificationNumber  *string `json:"tax_identification_number"`

	AccountPurpose            *string          `json:"account_purpose"`
	OtherAccountPurpose       *string          `json:"other_account_purpose"`
	EstimatedAnnualDeposit    *decimal.Decimal `json:"estimated_annual_deposit"`
	EstimatedAnnualWithdrawal *decimal.Decimal `json:"estimated_annual_withdrawal"`

	ProofOfAddressUploaded *bool `json:"proof_of_address_uploaded"`
	ProofOfIncomeUploaded  *bool `json:"proof_of_income_uploaded"`
}

// apply copies the set fields of in onto p. Malformed values are reported on v.
func (in Input) apply(p *models.KYCProfile, v *validation.Validator) {
	str := func(dst *string, src *string) {
		if src != nil && strings.TrimSpace(*src) != "" {
			*dst = strings.TrimSpace(*src)
		}
	}
	dec := func(dst *decimal.Decimal, src *decimal.Decimal) {
		if src != nil {
			*dst = *src
		}
	}
	num := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	flag := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	str(&p.FirstName, in.FirstName)
	str(&p.LastName, in.LastName)
	if in.DateOfBirth != nil && strings.TrimSpace(*in.DateOfBirth) != "" {
		dob, err := time.Parse(dateLayout, strings.TrimSpace(*in.DateOfBirth))
		if err != nil {
			v.AddError("date_of_birth", "must be a date in YYYY-MM-DD format")
		} else {
			p.DateOfBirth = &dob
		}
	}
	str(&p.PlaceOfBirth, in.PlaceOfBirth)
	str(&p.Gender, in.Gender)
	str(&p.Nationality, in.Nationality)
	str(&p.CountryOfResidence, in.CountryOfResidence)
	str(&p.DocumentNumber, in.DocumentNumber)
	str(&p.AddressLine1, in.AddressLine1)
	str(&p.AddressLine2, in.AddressLine2)
	str(&p.City, in.City)
	str(&p.State, in.State)
	str(&p.PostalCode, in.PostalCode)
	str(&p.Country, in.Country)

	str(&p.PhoneCountry, in.PhoneCountry)
	str(&p.PhoneNumber, in.PhoneNumber)
	str(&p.MobileCountry, in.MobileCountry)
	str(&p.MobileNumber, in.MobileNumber)

	str(&p.EmploymentStatus, in.EmploymentStatus)
	str(&p.Occupation, in.Occupation)
	str(&p.EmployerName, in.EmployerName)
	str(&p.EmployerAddress, in.EmployerAddress)
	str(&p.EmployerPhone, in.EmployerPhone)
	num(&p.YearsInEmployment, in.YearsInEmployment)
	dec(&p.MonthlyIncome, in.MonthlyIncome)
	dec(&p.AnnualIncome, in.AnnualIncome)
	str(&p.IncomeCurrency, in.IncomeCurrency)
	str(&p.SourceOfFunds, in.SourceOfFunds)
	str(&p.OtherSourceOfFunds, in.OtherSourceOfFunds)

	num(&p.TradingExperienceYears, in.TradingExperienceYears)
	str(&p.TradingExperienceLevel, in.TradingExperienceLevel)
	str(&p.InvestmentKnowledge, in.InvestmentKnowledge)
	str(&p.RiskTolerance, in.RiskTolerance)

	flag(&p.PoliticallyExposedPerson, in.PoliticallyExposedPerson)
	str(&p.PEPDetails, in.PEPDetails)
	flag(&p.USCitizenOrResident, in.USCitizenOrResident)
	str(&p.TaxIdentificationNumber, in.TaxIdentificationNumber)

	str(&p.AccountPurpose, in.AccountPurpose)
	str(&p.OtherAccountPurpose, in.OtherAccountPurpose)
	dec(&p.EstimatedAnnualDeposit, in.EstimatedAnnualDeposit)
	dec(&p.EstimatedAnnualWithdrawal, in.EstimatedAnnualWithdrawal)

	flag(&p.ProofOfAddressUploaded, in.ProofOfAddressUploaded)
	flag(&p.ProofOfIncomeUploaded, in.ProofOfIncomeUploaded)
}
