// Package extraction turns OCR text into structured KYC fields and an advisory score.
// Everything here is a pure function of its inputs.
package extraction

import (
	"strings"

	"brokerage/internal/models"
)

// Result is the score delta and the fields recovered from one text.
type Result struct {
	Score  int
	Fields models.JSON
}

// Extract applies the pattern rules for the document's type and side.
func Extract(text string, docType models.DocumentType, side models.DocumentSide) Result {
	res := Result{Fields: models.JSON{}}
	lower := strings.ToLower(text)

	switch {
	case docType == models.DocumentTypePassport:
		if strings.Contains(lower, "passport") || strings.Contains(lower, "passeport") {
			res.Score += BonusTypeKeyword
			res.Fields["has_passport_keyword"] = true
		}
		if m := passportNumberRe.FindString(text); m != "" {
			res.Score += BonusDocumentNumber
			res.Fields["document_number"] = m
		}
		if mrz := mrzRe.FindAllString(text, -1); len(mrz) >= minMRZLines {
			res.Score += BonusMRZ
			res.Fields["has_mrz"] = true
			res.Fields["mrz"] = mrz
		}

	case docType == models.DocumentTypeNationalID && side == models.DocumentSideBack:
		if strings.Contains(lower, "address") || strings.Contains(lower, "residence") {
			res.Score += BonusAddressKeyword
			res.Fields["has_address_keyword"] = true
		}
		if m := barcodeRe.FindString(text); m != "" {
			res.Score += BonusBarcodeDigits
			res.Fields["barcode"] = m
		}

	case docType == models.DocumentTypeNationalID:
		if strings.Contains(lower, "national") || strings.Contains(lower, "identity") || strings.Contains(lower, "id") {
			res.Score += BonusTypeKeyword
			res.Fields["has_id_keyword"] = true
		}
		if m := nationalIDRe.FindString(text); m != "" {
			res.Score += BonusDocumentNumber
			res.Fields["document_number"] = m
		}
	}

	if dates := dateRe.FindAllString(text, -1); len(dates) > 0 {
		res.Score += BonusDate
		res.Fields["dates_found"] = dates

		if strings.Contains(lower, "birth") || strings.Contains(lower, "dob") {
			if m := birthDateRe.FindStringSubmatch(text); m != nil {
				res.Fields["date_of_birth"] = FormatDate(m[1])
			}
		}
	}

	if side == models.DocumentSideFront || docType == models.DocumentTypePassport {
		if first, last, ok := findName(text); ok {
			res.Score += BonusName
			res.Fields["names_found"] = []string{first + " " + last}
			res.Fields["first_name"] = first
			res.Fields["last_name"] = last
		}
	}

	if m := nationalityRe.FindStringSubmatch(text); m != nil {
		res.Fields["nationality"] = m[1]
	}

	return res
}

// PersonalInfo holds the fields that may be auto-filled into a profile.
type PersonalInfo struct {
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	PlaceOfBirth   string `json:"place_of_birth,omitempty"`
	Gender         string `json:"gender,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

// Empty reports whether nothing was extracted.
func (p PersonalInfo) Empty() bool {
	return p == PersonalInfo{}
}

// Map returns the non-empty fields keyed by their JSON name.
func (p PersonalInfo) Map() map[string]string {
	out := make(map[string]string)
	add := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	add("first_name", p.FirstName)
	add("last_name", p.LastName)
	add("date_of_birth", p.DateOfBirth)
	add("place_of_birth", p.PlaceOfBirth)
	add("gender", p.Gender)
	add("nationality", p.Nationality)
	add("document_number", p.DocumentNumber)
	return out
}

// PersonalInfoFromJSON reads the personal_info block written by the scorer.
func PersonalInfoFromJSON(j models.JSON) PersonalInfo {
	raw, ok := j["personal_info"].(map[string]interface{})
	if !ok {
		return PersonalInfo{}
	}
	get := func(k string) string {
		s, _ := raw[k].(string)
		return s
	}
	return PersonalInfo{
		FirstName:      get("first_name"),
		LastName:       get("last_name"),
		DateOfBirth:    get("date_of_birth"),
		PlaceOfBirth:   get("place_of_birth"),
		Gender:         get("gender"),
		Nationality:    get("nationality"),
		DocumentNumber: get("document_number"),
	}
}

// ExtractPersonalInfo pulls auto-fill candidates from text regardless of score rules.
func ExtractPersonalInfo(text string, docType models.DocumentType) PersonalInfo {
	var info PersonalInfo

	if first, last, ok := findName(text); ok {
		info.FirstName, info.LastName = first, last
	}
	if m := birthDateRe.FindStringSubmatch(text); m != nil {
		info.DateOfBirth = FormatDate(m[1])
	}
	if m := nationalityRe.FindStringSubmatch(text); m != nil {
		info.Nationality = m[1]
	}
	if m := placeOfBirthRe.FindStringSubmatch(text); m != nil {
		info.PlaceOfBirth = m[1]
	}
	if m := genderRe.FindStringSubmatch(text); m != nil {
		switch strings.ToLower(m[1]) {
		case "m", "male":
			info.Gender = "male"
		case "f", "female":
			info.Gender = "female"
		}
	}

	numberRe := nationalIDRe
	if docType == models.DocumentTypePassport {
		numberRe = passportNumberRe
	}
	info.DocumentNumber = numberRe.FindString(text)

	return info
}
