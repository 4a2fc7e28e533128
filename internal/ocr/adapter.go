// Package ocr wraps the vision-capable generation service behind the
// extraction contract. It is the only cascade layer with external cost, so
// it runs last and never lets a service failure escape as an error: a
// failed OCR call degrades to a failed extraction.
package ocr

import (
	"bytes"
	"context"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"

	"github.com/clausewise/contract-engine/internal/domain"
	"github.com/clausewise/contract-engine/internal/observability"
)

const transcribePrompt = "Transcribe the full text from this document exactly as it appears. Output raw text only."

// VisionClient is the generation service capability the adapter needs.
type VisionClient interface {
	CompleteWithImages(ctx context.Context, prompt string, images [][]byte) (string, error)
}

// Config holds OCR adapter settings.
type Config struct {
	Enabled       bool
	MaxPages      int
	ImageQuality  int
	MinTextLength int
}

// Adapter renders PDF pages to JPEG and submits them for transcription.
type Adapter struct {
	vision VisionClient
	cfg    Config
	logger *observability.Logger
}

// NewAdapter creates a new OCR fallback adapter.
func NewAdapter(vision VisionClient, cfg Config, logger *observability.Logger) *Adapter {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	if cfg.ImageQuality < 1 || cfg.ImageQuality > 100 {
		cfg.ImageQuality = 85
	}
	if cfg.MinTextLength <= 0 {
		cfg.MinTextLength = domain.DefaultMinTextLength
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Adapter{
		vision: vision,
		cfg:    cfg,
		logger: logger.WithComponent("ocr"),
	}
}

// Extract transcribes the document through the vision service. The source
// layer is always OCR. Render and transport errors are swallowed into a
// failed result; ingestion must degrade, not crash.
func (a *Adapter) Extract(ctx context.Context, raw []byte) domain.ExtractionResult {
	failed := domain.ExtractionResult{Layer: domain.LayerOCR, Success: false}

	if !a.cfg.Enabled {
		a.logger.Info().Msg("OCR fallback disabled, reporting extraction failure")
		return failed
	}

	images, err := a.renderPages(ctx, raw)
	if err != nil {
		a.logger.Warn().Err(err).Msg("Page rendering failed")
		return failed
	}
	if len(images) == 0 {
		a.logger.Warn().Msg("Document has no renderable pages")
		return failed
	}

	a.logger.Info().Int("pages", len(images)).Msg("Submitting pages for cloud OCR")

	text, err := a.vision.CompleteWithImages(ctx, transcribePrompt, images)
	if err != nil {
		a.logger.Warn().Err(err).Msg("OCR transcription failed")
		return failed
	}

	return domain.NewExtractionResult(text, domain.LayerOCR, a.cfg.MinTextLength)
}

// renderPages converts up to MaxPages pages to JPEG. Pages beyond the cap
// are dropped rather than billed.
func (a *Adapter) renderPages(ctx context.Context, raw []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount > a.cfg.MaxPages {
		a.logger.Warn().
			Int("pages", pageCount).
			Int("max_pages", a.cfg.MaxPages).
			Msg("Document exceeds OCR page cap, truncating")
		pageCount = a.cfg.MaxPages
	}

	images := make([][]byte, 0, pageCount)
	for page := 0; page < pageCount; page++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		img, err := doc.Image(page)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: a.cfg.ImageQuality}); err != nil {
			return nil, err
		}
		images = append(images, buf.Bytes())
	}

	return images, nil
}
