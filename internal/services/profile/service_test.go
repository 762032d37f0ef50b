package profile

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"
	"brokerage/internal/repositories"
	"brokerage/internal/repositories/testutil"
	"brokerage/internal/services/extraction"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache { return &memCache{items: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memCache) SetWithTTL(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

type ProfileServiceSuite struct {
	suite.Suite
	ctx       context.Context
	repo      repositories.ProfileRepository
	documents repositories.DocumentRepository
	svc       Service
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) SetupTest() {
	s.ctx = context.Background()
	db := testutil.NewDB(s.T())
	s.repo = repositories.NewProfileRepository(db)
	s.documents = repositories.NewDocumentRepository(db)
	s.svc = NewService(s.repo, s.documents, nil, Config{}, nil)
}

func ptr[T any](v T) *T { return &v }

func completeInput() Input {
	income := decimal.NewFromInt(85000)
	return Input{
		FirstName:              ptr("Amal"),
		LastName:               ptr("Haddad"),
		DateOfBirth:            ptr("1988-04-12"),
		Nationality:            ptr("United Arab Emirates"),
		CountryOfResidence:     ptr("United Arab Emirates"),
		AddressLine1:           ptr("12 Corniche Road"),
		City:                   ptr("Abu Dhabi"),
		PostalCode:             ptr("51133"),
		PhoneCountry:           ptr("+971"),
		PhoneNumber:            ptr("50-123-4567"),
		EmploymentStatus:       ptr("employed"),
		AnnualIncome:           &income,
		SourceOfFunds:          ptr("salary"),
		TradingExperienceLevel: ptr("intermediate"),
		RiskTolerance:          ptr("medium"),
		AccountPurpose:         ptr("investment"),
	}
}

func (s *ProfileServiceSuite) addDocument(userID uint, docType models.DocumentType, side models.DocumentSide, status models.DocumentStatus, extracted models.JSON) *models.KYCDocument {
	doc := &models.KYCDocument{
		UserID:        userID,
		DocumentType:  docType,
		DocumentSide:  side,
		MimeType:      "image/jpeg",
		Location:      "doc.jpg",
		Status:        status,
		ExtractedData: extracted,
	}
	s.Require().NoError(s.documents.Create(s.ctx, doc, nil))
	return doc
}

func (s *ProfileServiceSuite) TestSave_CreatesThenMerges() {
	res, err := s.svc.Save(s.ctx, 1, Input{FirstName: ptr("Amal"), City: ptr("Dubai")})
	s.Require().NoError(err)
	s.Equal(ActionCreated, res.Action)
	s.Equal(models.ProfileStatusDraft, res.Profile.Status)

	res, err = s.svc.Save(s.ctx, 1, Input{FirstName: ptr("  "), City: ptr("Abu Dhabi"), PhoneCountry: ptr("+971"), PhoneNumber: ptr("(50) 123 4567")})
	s.Require().NoError(err)
	s.Equal(ActionUpdated, res.Action)

	p, err := s.svc.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Amal", p.FirstName, "blank values do not clear stored ones")
	s.Equal("Abu Dhabi", p.City)
	s.Equal("501234567", p.PhoneNumber)
}

func (s *ProfileServiceSuite) TestSave_RejectsInvalidFields() {
	_, err := s.svc.Save(s.ctx, 1, Input{PhoneCountry: ptr("+971"), PhoneNumber: ptr("123"), DateOfBirth: ptr("12/04/1988")})
	s.Require().ErrorIs(err, apperrors.ErrInvalidProfile)
	de, _ := apperrors.As(err)
	fields := de.Details["fields"].(map[string]interface{})
	s.Contains(fields, "phone_number")
	s.Contains(fields, "date_of_birth")

	_, err = s.svc.Get(s.ctx, 1)
	s.ErrorIs(err, apperrors.ErrProfileNotFound)
}

func (s *ProfileServiceSuite) TestSubmit() {
	_, err := s.svc.Submit(s.ctx, 1)
	s.ErrorIs(err, apperrors.ErrProfileNotFound)

	_, err = s.svc.Save(s.ctx, 1, Input{FirstName: ptr("Amal")})
	s.Require().NoError(err)
	_, err = s.svc.Submit(s.ctx, 1)
	s.ErrorIs(err, apperrors.ErrInvalidProfile)

	_, err = s.svc.Save(s.ctx, 1, completeInput())
	s.Require().NoError(err)
	p, err := s.svc.Submit(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(models.ProfileStatusSubmitted, p.Status)
	s.NotNil(p.SubmittedAt)

	_, err = s.svc.Submit(s.ctx, 1)
	s.ErrorIs(err, apperrors.ErrProfileAlreadySubmitted)
	_, err = s.svc.Save(s.ctx, 1, Input{City: ptr("Dubai")})
	s.ErrorIs(err, apperrors.ErrProfileLocked)
}

func (s *ProfileServiceSuite) TestSubmit_USPersonNeedsTIN() {
	in := completeInput()
	in.USCitizenOrResident = ptr(true)
	_, err := s.svc.Save(s.ctx, 1, in)
	s.Require().NoError(err)

	_, err = s.svc.Submit(s.ctx, 1)
	s.Require().ErrorIs(err, apperrors.ErrInvalidProfile)
	de, _ := apperrors.As(err)
	s.Contains(de.Details["fields"], "tax_identification_number")
}

func (s *ProfileServiceSuite) TestReview() {
	_, err := s.svc.Review(s.ctx, 1, 99, true, "")
	s.ErrorIs(err, apperrors.ErrProfileNotFound)

	_, err = s.svc.Save(s.ctx, 1, completeInput())
	s.Require().NoError(err)
	_, err = s.svc.Review(s.ctx, 1, 99, true, "")
	s.ErrorIs(err, apperrors.ErrProfileNotSubmitted)

	_, err = s.svc.Submit(s.ctx, 1)
	s.Require().NoError(err)
	_, err = s.svc.Review(s.ctx, 1, 99, false, "blurry")
	s.ErrorIs(err, apperrors.ErrCommentRequired)

	p, err := s.svc.Review(s.ctx, 1, 99, false, "address does not match the document")
	s.Require().NoError(err)
	s.Equal(models.ProfileStatusRejected, p.Status)
	s.Require().NotNil(p.ReviewedBy)
	s.Equal(uint(99), *p.ReviewedBy)

	res, err := s.svc.Save(s.ctx, 1, Input{AddressLine1: ptr("14 Corniche Road")})
	s.Require().NoError(err)
	s.Equal(models.ProfileStatusDraft, res.Profile.Status, "a rejected profile reopens on save")

	_, err = s.svc.Submit(s.ctx, 1)
	s.Require().NoError(err)
	p, err = s.svc.Review(s.ctx, 1, 99, true, "")
	s.Require().NoError(err)
	s.Equal(models.ProfileStatusApproved, p.Status)
}

func (s *ProfileServiceSuite) TestAutoFill_NeverOverwrites() {
	_, err := s.svc.Save(s.ctx, 1, Input{FirstName: ptr("Amal"), Nationality: ptr("Jordan")})
	s.Require().NoError(err)

	res, err := s.svc.AutoFill(s.ctx, 1, extraction.PersonalInfo{
		FirstName:   "AMAL MARIA",
		LastName:    "HADDAD",
		DateOfBirth: "1988-04-12",
		Nationality: "United Arab Emirates",
	})
	s.Require().NoError(err)
	s.False(res.Created)
	s.Equal([]string{"country_of_residence", "date_of_birth", "last_name"}, res.Fields)

	p, err := s.svc.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal("Amal", p.FirstName)
	s.Equal("Jordan", p.Nationality)
	s.Equal("HADDAD", p.LastName)
	s.Equal("United Arab Emirates", p.CountryOfResidence)
	s.Require().NotNil(p.DateOfBirth)
	s.Equal("1988-04-12", p.DateOfBirth.Format(dateLayout))
	s.ElementsMatch([]string{"country_of_residence", "date_of_birth", "last_name"}, []string(p.AutoFilledFields))

	res, err = s.svc.AutoFill(s.ctx, 1, extraction.PersonalInfo{LastName: "OTHER"})
	s.Require().NoError(err)
	s.Empty(res.Fields)
}

func (s *ProfileServiceSuite) TestAutoFill_CreatesDraft() {
	res, err := s.svc.AutoFill(s.ctx, 2, extraction.PersonalInfo{FirstName: "OMAR", Gender: "male"})
	s.Require().NoError(err)
	s.True(res.Created)
	s.Equal([]string{"first_name", "gender"}, res.Fields)

	p, err := s.svc.Get(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal(models.ProfileStatusDraft, p.Status)
	s.Equal("OMAR", p.FirstName)
}

func (s *ProfileServiceSuite) TestAutoFill_SkipsLockedProfile() {
	_, err := s.svc.Save(s.ctx, 1, completeInput())
	s.Require().NoError(err)
	_, err = s.svc.Submit(s.ctx, 1)
	s.Require().NoError(err)

	res, err := s.svc.AutoFill(s.ctx, 1, extraction.PersonalInfo{PlaceOfBirth: "Amman"})
	s.Require().NoError(err)
	s.Empty(res.Fields)
}

func (s *ProfileServiceSuite) TestAutoFillSuggestions() {
	out, err := s.svc.AutoFillSuggestions(s.ctx, 1)
	s.Require().NoError(err)
	s.False(out.Available)

	_, err = s.svc.Save(s.ctx, 1, Input{FirstName: ptr("AMAL")})
	s.Require().NoError(err)
	doc := s.addDocument(1, models.DocumentTypePassport, models.DocumentSideSingle, models.DocumentStatusPending, models.JSON{
		"city": "Abu Dhabi",
		"personal_info": map[string]interface{}{
			"first_name":  "AMAL",
			"last_name":   "HADDAD",
			"nationality": "United Arab Emirates",
		},
	})

	out, err = s.svc.AutoFillSuggestions(s.ctx, 1)
	s.Require().NoError(err)
	s.True(out.Available)
	s.Equal(doc.ID, out.DocumentID)
	s.Equal(SuggestionSource, out.Source)
	s.Equal(map[string]string{
		"last_name":            "HADDAD",
		"nationality":          "United Arab Emirates",
		"country_of_residence": "United Arab Emirates",
		"city":                 "Abu Dhabi",
	}, out.Suggestions)
}

func (s *ProfileServiceSuite) TestCompletionStatus_Progression() {
	c, err := s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(0, c.Percentage)
	s.Equal(NextFillProfile, c.NextAction)
	s.False(c.CanDeposit)

	in := completeInput()
	in.PhoneNumber = nil
	_, err = s.svc.Save(s.ctx, 1, in)
	s.Require().NoError(err)
	c, err = s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(60, c.Percentage)
	s.Equal(NextAddPhone, c.NextAction)

	_, err = s.svc.Save(s.ctx, 1, Input{PhoneNumber: ptr("501234567")})
	s.Require().NoError(err)
	c, err = s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(70, c.Percentage)
	s.Equal(NextUploadID, c.NextAction)
	s.True(c.CanDeposit)

	s.addDocument(1, models.DocumentTypeNationalID, models.DocumentSideFront, models.DocumentStatusPending, nil)
	c, err = s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(85, c.Percentage)
	s.Equal(NextUploadIDBack, c.NextAction)
	s.Equal(models.DocumentStatusPending, c.DocumentStatus)

	s.addDocument(1, models.DocumentTypeNationalID, models.DocumentSideBack, models.DocumentStatusPending, nil)
	c, err = s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(100, c.Percentage)
	s.Equal(NextSubmitProfile, c.NextAction)
	s.False(c.CanTrade, "documents are not approved yet")

	_, err = s.svc.Submit(s.ctx, 1)
	s.Require().NoError(err)
	c, err = s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(NextWaitForApproval, c.NextAction)
}

func (s *ProfileServiceSuite) TestCompletionStatus_CanTrade() {
	_, err := s.svc.Save(s.ctx, 1, completeInput())
	s.Require().NoError(err)
	_, err = s.svc.Submit(s.ctx, 1)
	s.Require().NoError(err)
	_, err = s.svc.Review(s.ctx, 1, 7, true, "")
	s.Require().NoError(err)
	s.addDocument(1, models.DocumentTypePassport, models.DocumentSideSingle, models.DocumentStatusApproved, nil)

	c, err := s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(100, c.Percentage)
	s.True(c.CanTrade)
	s.Equal(NextNone, c.NextAction)
	s.True(c.Identity.Passport)
}

func (s *ProfileServiceSuite) TestCompletionStatus_RejectedDocumentBlocksDeposit() {
	_, err := s.svc.Save(s.ctx, 1, completeInput())
	s.Require().NoError(err)
	s.addDocument(1, models.DocumentTypePassport, models.DocumentSideSingle, models.DocumentStatusRejected, nil)

	c, err := s.svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(70, c.Percentage)
	s.Equal(models.DocumentStatusRejected, c.DocumentStatus)
	s.False(c.CanDeposit)
	s.Equal(NextUploadID, c.NextAction)
}

func (s *ProfileServiceSuite) TestCompletionStatus_Cached() {
	mc := newMemCache()
	svc := NewService(s.repo, s.documents, mc, Config{}, nil)

	_, err := svc.Save(s.ctx, 1, completeInput())
	s.Require().NoError(err)
	c, err := svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(70, c.Percentage)
	s.Contains(mc.items, completionKey(1))

	// Documents bypass the profile service, so the snapshot stays until invalidated.
	s.addDocument(1, models.DocumentTypePassport, models.DocumentSideSingle, models.DocumentStatusPending, nil)
	c, err = svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(70, c.Percentage)

	svc.InvalidateCompletion(s.ctx, 1)
	c, err = svc.CompletionStatus(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(100, c.Percentage)
}
