package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/clausewise/contract-engine/internal/domain"
)

// RawStrategy extracts plain text in content-stream order using a pure-Go
// PDF reader. Lower fidelity than LAYOUT (no layout reconstruction) but it
// handles some files the layout layer chokes on.
type RawStrategy struct{}

// NewRawStrategy creates the RAW extraction layer.
func NewRawStrategy() *RawStrategy {
	return &RawStrategy{}
}

// Layer reports the cascade layer this strategy implements.
func (s *RawStrategy) Layer() domain.SourceLayer {
	return domain.LayerRaw
}

// Attempt extracts text page by page, skipping pages that fail to decode.
func (s *RawStrategy) Attempt(ctx context.Context, raw []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.ExtractionFailure("open document", err)
	}

	var full strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if content != "" {
			full.WriteString(content)
			full.WriteString("\n")
		}
	}

	return full.String(), nil
}
