// Package ocr defines the image-analysis capabilities used to score KYC documents.
// Engines are plugged in behind small interfaces so scoring stays deterministic in tests.
package ocr

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
)

// TextExtractor recognizes printed text in an image.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// FaceDetector reports whether an image contains a face.
type FaceDetector interface {
	DetectFace(ctx context.Context, data []byte) (bool, error)
}

// BarcodeDetector reports whether an image contains a barcode.
type BarcodeDetector interface {
	DetectBarcode(ctx context.Context, data []byte) (bool, error)
}

// Analyzer groups the capabilities the scorer needs.
type Analyzer struct {
	Text    TextExtractor
	Face    FaceDetector
	Barcode BarcodeDetector
}

// NewAnalyzer fills missing capabilities with no-op implementations.
func NewAnalyzer(text TextExtractor, face FaceDetector, barcode BarcodeDetector) *Analyzer {
	if text == nil {
		text = NoopEngine{}
	}
	if face == nil {
		face = NoopEngine{}
	}
	if barcode == nil {
		barcode = NoopEngine{}
	}
	return &Analyzer{Text: text, Face: face, Barcode: barcode}
}

// Dimensions decodes only the image header.
func Dimensions(data []byte) (width, height int, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// NoopEngine finds nothing. It is the default when no engine is configured.
type NoopEngine struct{}

func (NoopEngine) ExtractText(context.Context, []byte) (string, error)  { return "", nil }
func (NoopEngine) DetectFace(context.Context, []byte) (bool, error)    { return false, nil }
func (NoopEngine) DetectBarcode(context.Context, []byte) (bool, error) { return false, nil }

// StaticEngine returns fixed results for every input.
type StaticEngine struct {
	Text    string
	Face    bool
	Barcode bool
	Err     error
}

func (s StaticEngine) ExtractText(context.Context, []byte) (string, error) {
	return s.Text, s.Err
}

func (s StaticEngine) DetectFace(context.Context, []byte) (bool, error) {
	return s.Face, nil
}

func (s StaticEngine) DetectBarcode(context.Context, []byte) (bool, error) {
	return s.Barcode, nil
}

// NewStatic builds an Analyzer backed by one StaticEngine.
func NewStatic(e StaticEngine) *Analyzer {
	return &Analyzer{Text: e, Face: e, Barcode: e}
}
