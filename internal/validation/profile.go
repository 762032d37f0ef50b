package validation

import (
	"time"

	"github.com/shopspring/decimal"

	"brokerage/internal/models"
)

// ProfileFields checks the shape of whatever fields are present. It runs on
// every save, so missing values are not reported here.
func (v *Validator) ProfileFields(p *models.KYCProfile) {
	v.MaxLength("first_name", p.FirstName, MaxNameLength)
	v.MaxLength("last_name", p.LastName, MaxNameLength)
	v.MaxLength("address_line1", p.AddressLine1, MaxAddressLength)
	v.MaxLength("address_line2", p.AddressLine2, MaxAddressLength)
	v.MaxLength("pep_details", p.PEPDetails, MaxNotesLength)

	if p.PhoneNumber != "" {
		v.PhoneNumber("phone_number", p.PhoneCountry, p.PhoneNumber)
	}
	if p.MobileNumber != "" {
		v.PhoneNumber("mobile_number", p.MobileCountry, p.MobileNumber)
	}

	optionalOneOf(v, "employment_status", p.EmploymentStatus, EmploymentStatuses)
	optionalOneOf(v, "source_of_funds", p.SourceOfFunds, SourcesOfFunds)
	optionalOneOf(v, "trading_experience_level", p.TradingExperienceLevel, ExperienceLevels)
	optionalOneOf(v, "risk_tolerance", p.RiskTolerance, RiskTolerances)
	optionalOneOf(v, "account_purpose", p.AccountPurpose, AccountPurposes)

	v.Check(!p.AnnualIncome.IsNegative(), "annual_income", "must not be negative")
	v.Check(!p.MonthlyIncome.IsNegative(), "monthly_income", "must not be negative")
	v.Check(p.YearsInEmployment >= 0, "years_in_employment", "must not be negative")
	v.Check(p.TradingExperienceYears >= 0, "trading_experience_years", "must not be negative")
}

// ProfileSubmission checks everything a profile needs before it can be reviewed.
func (v *Validator) ProfileSubmission(p *models.KYCProfile, now time.Time) {
	v.ProfileFields(p)

	// personal
	v.Required("date_of_birth", p.DateOfBirth)
	v.Required("nationality", p.Nationality)
	v.Required("country_of_residence", p.CountryOfResidence)
	v.Required("address_line1", p.AddressLine1)
	v.Required("city", p.City)
	v.Required("postal_code", p.PostalCode)

	if p.DateOfBirth != nil && !p.DateOfBirth.IsZero() {
		age := AgeAt(*p.DateOfBirth, now)
		v.Check(age >= MinAge, "date_of_birth", "you must be at least 18 years old")
		v.Check(age <= MaxAge, "date_of_birth", "invalid date of birth")
	}

	// financial
	v.Required("employment_status", p.EmploymentStatus)
	v.Check(p.AnnualIncome.IsPositive(), "annual_income", "is required")
	v.Required("source_of_funds", p.SourceOfFunds)
	if p.AnnualIncome.IsPositive() {
		v.DecimalRange("annual_income", p.AnnualIncome,
			decimal.NewFromInt(MinAnnualIncome), decimal.NewFromInt(MaxAnnualIncome))
	}

	// experience and purpose
	v.Required("trading_experience_level", p.TradingExperienceLevel)
	v.Required("risk_tolerance", p.RiskTolerance)
	v.Required("account_purpose", p.AccountPurpose)

	if p.USCitizenOrResident {
		v.Required("tax_identification_number", p.TaxIdentificationNumber)
	}
	if p.PoliticallyExposedPerson {
		v.Required("pep_details", p.PEPDetails)
	}
}

// AgeAt returns completed years between dob and now.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

func optionalOneOf(v *Validator, field, value string, allowed []string) {
	if value != "" {
		v.OneOf(field, value, allowed...)
	}
}
