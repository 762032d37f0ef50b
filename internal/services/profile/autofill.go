package profile

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/services/extraction"

	"go.uber.org/zap"
)

const (
	SuggestionSource     = "ocr_extraction"
	SuggestionConfidence = "medium"
)

// suggestionKeys are the top-level extracted_data keys offered as suggestions
// in addition to personal_info.
var suggestionKeys = []string{
	"first_name", "last_name", "date_of_birth", "place_of_birth", "gender", "nationality",
	"address_line1", "address_line2", "city", "state", "postal_code",
}

// AutoFill merges info into the user's profile without overwriting anything
// already set. Without a profile a DRAFT one is created from info. Profiles
// that are no longer editable are left alone.
func (s *service) AutoFill(ctx context.Context, userID uint, info extraction.PersonalInfo) (*AutoFillResult, error) {
	values := autoFillValues(info)
	result := &AutoFillResult{Fields: []string{}}
	if len(values) == 0 {
		return result, nil
	}

	err := s.repo.ExecuteInTransaction(ctx, func(repo repositories.ProfileRepository) error {
		p, err := repo.GetForUpdate(ctx, userID)
		if errors.Is(err, repositories.ErrProfileNotFound) {
			p = &models.KYCProfile{UserID: userID, Status: models.ProfileStatusDraft}
			result.Created = true
		} else if err != nil {
			return err
		} else if !p.Editable() {
			return nil
		}

		for _, key := range sortedKeys(values) {
			if fieldValue(p, key) != "" {
				continue
			}
			if setField(p, key, values[key]) {
				result.Fields = append(result.Fields, key)
			}
		}
		if len(result.Fields) == 0 {
			return nil
		}
		p.AutoFilledFields = mergeFields(p.AutoFilledFields, result.Fields)

		if result.Created {
			return repo.Create(ctx, p)
		}
		return repo.Save(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if len(result.Fields) > 0 {
		s.InvalidateCompletion(ctx, userID)
		s.logger.Info("profile auto-filled",
			zap.Uint("user_id", userID),
			zap.Bool("created", result.Created),
			zap.Strings("fields", result.Fields))
	}
	return result, nil
}

// AutoFillSuggestions offers extracted values from the newest front or
// passport document that the profile lacks or holds differently.
func (s *service) AutoFillSuggestions(ctx context.Context, userID uint) (*Suggestions, error) {
	out := &Suggestions{
		Suggestions: map[string]string{},
		Source:      SuggestionSource,
		Confidence:  SuggestionConfidence,
	}

	doc, err := s.documents.LatestWithPersonalInfo(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return out, nil
		}
		return nil, err
	}
	p, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, mapProfileError(err)
		}
		p = &models.KYCProfile{}
	}

	candidates := make(map[string]string)
	for _, key := range suggestionKeys {
		if v := doc.ExtractedData.String(key); v != "" {
			candidates[key] = v
		}
	}
	for k, v := range autoFillValues(extraction.PersonalInfoFromJSON(doc.ExtractedData)) {
		candidates[k] = v
	}
	if n, ok := candidates["nationality"]; ok {
		if _, set := candidates["country_of_residence"]; !set {
			candidates["country_of_residence"] = n
		}
	}

	for k, v := range candidates {
		if fieldValue(p, k) != v {
			out.Suggestions[k] = v
		}
	}
	out.Available = len(out.Suggestions) > 0
	out.DocumentType = doc.DocumentType
	out.DocumentID = doc.ID
	return out, nil
}

// autoFillValues flattens info, mirroring nationality into country of residence.
func autoFillValues(info extraction.PersonalInfo) map[string]string {
	values := info.Map()
	if n, ok := values["nationality"]; ok {
		values["country_of_residence"] = n
	}
	return values
}

func fieldValue(p *models.KYCProfile, key string) string {
	if key == "date_of_birth" {
		if p.DateOfBirth == nil || p.DateOfBirth.IsZero() {
			return ""
		}
		return p.DateOfBirth.Format(dateLayout)
	}
	if f := stringField(p, key); f != nil {
		return strings.TrimSpace(*f)
	}
	return ""
}

func setField(p *models.KYCProfile, key, value string) bool {
	if key == "date_of_birth" {
		dob, err := time.Parse(dateLayout, value)
		if err != nil {
			return false
		}
		p.DateOfBirth = &dob
		return true
	}
	f := stringField(p, key)
	if f == nil {
		return false
	}
	*f = value
	return true
}

func stringField(p *models.KYCProfile, key string) *string {
	switch key {
	case "first_name":
		return &p.FirstName
	case "last_name":
		return &p.LastName
	case "place_of_birth":
		return &p.PlaceOfBirth
	case "gender":
		return &p.Gender
	case "nationality":
		return &p.Nationality
	case "country_of_residence":
		return &p.CountryOfResidence
	case "document_number":
		return &p.DocumentNumber
	case "address_line1":
		return &p.AddressLine1
	case "address_line2":
		return &p.AddressLine2
	case "city":
		return &p.City
	case "state":
		return &p.State
	case "postal_code":
		return &p.PostalCode
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mergeFields(existing []string, added []string) []string {
	seen := make(map[string]bool, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, f := range append(append([]string{}, existing...), added...) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
