package extract

import (
	"context"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/clausewise/contract-engine/internal/domain"
)

// LayoutStrategy extracts layout-aware text using MuPDF (go-fitz). This is
// the highest-fidelity local layer: it preserves reading order for
// digitally authored PDFs and is usually sufficient on its own.
type LayoutStrategy struct{}

// NewLayoutStrategy creates the LAYOUT extraction layer.
func NewLayoutStrategy() *LayoutStrategy {
	return &LayoutStrategy{}
}

// Layer reports the cascade layer this strategy implements.
func (s *LayoutStrategy) Layer() domain.SourceLayer {
	return domain.LayerLayout
}

// Attempt extracts text from every page. Pages that fail to parse are
// skipped; the remaining pages still contribute.
func (s *LayoutStrategy) Attempt(ctx context.Context, raw []byte) (string, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return "", domain.ExtractionFailure("open document", err)
	}
	defer doc.Close()

	var full strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		text, err := doc.Text(page)
		if err != nil {
			continue
		}
		if text != "" {
			full.WriteString(text)
			full.WriteString("\n")
		}
	}

	return full.String(), nil
}
