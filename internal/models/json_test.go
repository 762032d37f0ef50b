package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_ValueScan(t *testing.T) {
	in := JSON{"first_name": "John", "has_mrz": true}

	v, err := in.Value()
	require.NoError(t, err)

	var fromBytes JSON
	require.NoError(t, fromBytes.Scan(v))
	assert.Equal(t, "John", fromBytes.String("first_name"))
	assert.True(t, fromBytes.Bool("has_mrz"))

	var fromString JSON
	require.NoError(t, fromString.Scan(string(v.([]byte))))
	assert.Equal(t, "John", fromString.String("first_name"))

	var fromNil JSON
	require.NoError(t, fromNil.Scan(nil))
	assert.Nil(t, fromNil)
}

func TestKYCDocument_Identity(t *testing.T) {
	cases := []struct {
		docType DocumentType
		side    DocumentSide
		want    Identity
	}{
		{DocumentTypePassport, DocumentSideSingle, IdentityPassport},
		{DocumentTypePassport, DocumentSideFront, IdentityPassport},
		{DocumentTypeNationalID, DocumentSideFront, IdentityNationalIDFront},
		{DocumentTypeNationalID, DocumentSideBack, IdentityNationalIDBack},
		{DocumentTypeNationalID, DocumentSideSingle, IdentityNationalIDLegacy},
	}
	for _, tc := range cases {
		d := KYCDocument{DocumentType: tc.docType, DocumentSide: tc.side}
		assert.Equal(t, tc.want, d.Identity())
	}
}

func TestValidDocumentSide(t *testing.T) {
	assert.True(t, ValidDocumentSide(DocumentTypePassport, DocumentSideSingle))
	assert.False(t, ValidDocumentSide(DocumentTypePassport, DocumentSideBack))
	assert.True(t, ValidDocumentSide(DocumentTypeNationalID, DocumentSideBack))
	assert.False(t, ValidDocumentSide(DocumentTypeNationalID, DocumentSideSingle))
	assert.False(t, ValidDocumentSide("driver_license", DocumentSideFront))
}

func TestKYCDocument_Redacted(t *testing.T) {
	reviewer := uint(9)
	d := KYCDocument{ID: "x", Location: "a/b", EncryptionIV: "iv", AuthTag: "tag", ReviewedBy: &reviewer, ReviewComment: "blurry image"}

	r := d.Redacted()
	assert.Empty(t, r.Location)
	assert.Empty(t, r.EncryptionIV)
	assert.Empty(t, r.AuthTag)
	assert.Nil(t, r.ReviewedBy)
	assert.Equal(t, "blurry image", r.ReviewComment)
	assert.Equal(t, "a/b", d.Location, "original untouched")
}

func TestIdentityCoverage(t *testing.T) {
	approved := func(d *KYCDocument) bool { return d.Status == DocumentStatusApproved }
	front := KYCDocument{DocumentType: DocumentTypeNationalID, DocumentSide: DocumentSideFront, Status: DocumentStatusApproved}
	back := KYCDocument{DocumentType: DocumentTypeNationalID, DocumentSide: DocumentSideBack, Status: DocumentStatusApproved}
	pendingBack := back
	pendingBack.Status = DocumentStatusPending

	c := CoverageOf([]KYCDocument{front}, approved)
	assert.False(t, c.Complete())
	assert.True(t, c.Partial())

	c = CoverageOf([]KYCDocument{front, pendingBack}, approved)
	assert.False(t, c.Complete(), "pending back side does not count")

	c = CoverageOf([]KYCDocument{front, back}, approved)
	assert.True(t, c.Complete())
	assert.False(t, c.Partial())

	legacy := KYCDocument{DocumentType: DocumentTypeNationalID, DocumentSide: DocumentSideSingle, Status: DocumentStatusApproved}
	assert.True(t, CoverageOf([]KYCDocument{legacy}, approved).Complete())

	passport := KYCDocument{DocumentType: DocumentTypePassport, DocumentSide: DocumentSideSingle, Status: DocumentStatusPending}
	assert.True(t, CoverageOf([]KYCDocument{passport}, nil).Complete())
	assert.False(t, CoverageOf([]KYCDocument{passport}, approved).Complete())
}
