package extraction

import "regexp"

// Score bonuses. Each rule adds independently.
const (
	BonusTypeKeyword    = 15
	BonusDocumentNumber = 20
	BonusMRZ            = 25
	BonusAddressKeyword = 10
	BonusBarcodeDigits  = 15
	BonusDate           = 10
	BonusName           = 15

	BonusPDF          = 30
	BonusHighRes      = 20
	BonusMediumRes    = 10
	BonusFace         = 25
	BonusBarcodeImage = 15

	MaxOCRTextLength = 5000
	minMRZLines      = 2
)

var (
	passportNumberRe = regexp.MustCompile(`[A-Z]{1,2}[0-9]{6,9}`)
	nationalIDRe     = regexp.MustCompile(`[0-9]{8,12}`)
	mrzRe            = regexp.MustCompile(`[A-Z0-9<]{44}`)
	barcodeRe        = regexp.MustCompile(`[0-9]{10,20}`)
	dateRe           = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)
	birthDateRe      = regexp.MustCompile(`(?i:date of birth|birth|dob)[:\s]*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`)
	nationalityRe    = regexp.MustCompile(`\b(?i:nationality|country of citizenship|country)[:\s]*([A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+)*)`)
	placeOfBirthRe   = regexp.MustCompile(`\b(?i:place of birth|born in|birthplace)[:\s]*([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*(?:[ \t]*,[ \t]*[A-Z][a-z]+)*)`)
	genderRe         = regexp.MustCompile(`\b(?i:sex|gender)[:\s]*((?i:male|female|m|f))\b`)
)
