package handlers

import (
	"io"
	"time"

	apperrors "brokerage/internal/errors"
	"brokerage/internal/models"
	"brokerage/internal/services/kyc"
	"brokerage/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

const documentField = "document"

type KYCHandler struct {
	service     kyc.Service
	maxFileSize int64
}

func NewKYCHandler(s kyc.Service, maxFileSize int64) *KYCHandler {
	if maxFileSize <= 0 {
		maxFileSize = kyc.DefaultMaxFileSize
	}
	return &KYCHandler{service: s, maxFileSize: maxFileSize}
}

type uploadResponse struct {
	ID           string                `json:"id"`
	DocumentType models.DocumentType   `json:"documentType"`
	DocumentSide models.DocumentSide   `json:"documentSide"`
	Status       models.DocumentStatus `json:"status"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// Upload accepts a passport or the front of a national ID.
// documentSide may be sent explicitly; it defaults by type.
func (h *KYCHandler) Upload(c *fiber.Ctx) error {
	docType := models.DocumentType(c.FormValue("documentType"))
	side := models.DocumentSide(c.FormValue("documentSide"))
	if side == "" && docType == models.DocumentTypeNationalID {
		side = models.DocumentSideFront
	}
	return h.upload(c, docType, side)
}

// UploadBack accepts the back of a national ID.
func (h *KYCHandler) UploadBack(c *fiber.Ctx) error {
	return h.upload(c, models.DocumentTypeNationalID, models.DocumentSideBack)
}

func (h *KYCHandler) upload(c *fiber.Ctx, docType models.DocumentType, side models.DocumentSide) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}

	fh, err := c.FormFile(documentField)
	if err != nil {
		return response.FromError(c, apperrors.ErrFileRequired)
	}
	if fh.Size > h.maxFileSize {
		return response.FromError(c, apperrors.ErrFileTooLarge.WithDetails(map[string]interface{}{"max_bytes": h.maxFileSize}))
	}
	f, err := fh.Open()
	if err != nil {
		return response.FromError(c, apperrors.ErrFileRequired)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxFileSize+1))
	if err != nil {
		return response.ServerError(c, "failed to read upload")
	}

	doc, err := h.service.Upload(c.UserContext(), kyc.UploadRequest{
		UserID:       claims.UserID,
		DocumentType: docType,
		Side:         side,
		Filename:     fh.Filename,
		Data:         data,
		Meta:         requestMeta(c),
	})
	if err != nil {
		return response.FromError(c, err)
	}

	return response.Created(c, "Document uploaded", uploadResponse{
		ID:           doc.ID,
		DocumentType: doc.DocumentType,
		DocumentSide: doc.DocumentSide,
		Status:       doc.Status,
		CreatedAt:    doc.CreatedAt,
	})
}

func (h *KYCHandler) GetStatus(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	report, err := h.service.Status(c.UserContext(), claims.UserID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "KYC status", report)
}

func (h *KYCHandler) GetDocument(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return unauthorized(c)
	}
	view, err := h.service.GetDocument(c.UserContext(), c.Params("id"), claims.Principal())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "KYC document", view)
}
