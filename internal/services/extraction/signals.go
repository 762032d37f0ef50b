package extraction

import "brokerage/internal/models"

// Signals are the non-text observations made about a document file.
type Signals struct {
	IsPDF      bool
	Width      int
	Height     int
	HasFace    bool
	HasBarcode bool
}

// ScoreSignals scores file format, resolution, face and barcode presence.
func ScoreSignals(sig Signals, docType models.DocumentType, side models.DocumentSide) Result {
	res := Result{Fields: models.JSON{}}

	if sig.IsPDF {
		res.Score += BonusPDF
		res.Fields["file_type"] = "pdf"
	} else {
		switch {
		case sig.Width >= 800 && sig.Height >= 600:
			res.Score += BonusHighRes
		case sig.Width >= 400 && sig.Height >= 300:
			res.Score += BonusMediumRes
		}
		res.Fields["file_type"] = "image"
		if sig.Width > 0 {
			res.Fields["image_dimensions"] = map[string]interface{}{"width": sig.Width, "height": sig.Height}
		}
		if sig.HasFace && (side == models.DocumentSideFront || docType == models.DocumentTypePassport) {
			res.Score += BonusFace
			res.Fields["has_face"] = true
		}
	}

	if sig.HasBarcode && side == models.DocumentSideBack {
		res.Score += BonusBarcodeImage
		res.Fields["has_barcode"] = true
	}

	return res
}

// TruncateText bounds stored OCR text.
func TruncateText(text string) string {
	r := []rune(text)
	if len(r) <= MaxOCRTextLength {
		return text
	}
	return string(r[:MaxOCRTextLength])
}
