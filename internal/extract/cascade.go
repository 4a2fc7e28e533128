// Package extract implements the layered text extraction pipeline for PDF
// documents. Local strategies run first in fixed order; the cloud OCR
// fallback is only reached when every local layer comes up short.
package extract

import (
	"context"

	"github.com/clausewise/contract-engine/internal/domain"
	"github.com/clausewise/contract-engine/internal/observability"
)

// Strategy is one extraction layer. Attempt errors are soft: parsers
// legitimately produce nothing for scanned documents, so a failure only
// means "insufficient text", never a fatal condition.
type Strategy interface {
	Layer() domain.SourceLayer
	Attempt(ctx context.Context, raw []byte) (string, error)
}

// Fallback is the terminal OCR layer. Its result is returned verbatim,
// including its own success flag.
type Fallback interface {
	Extract(ctx context.Context, raw []byte) domain.ExtractionResult
}

// Cascade runs ordered strategies over raw PDF bytes until one yields text
// above the validity threshold.
type Cascade struct {
	strategies    []Strategy
	fallback      Fallback
	minTextLength int
	logger        *observability.Logger
}

// NewCascade creates a cascade with the default local layers (LAYOUT, then
// RAW) ahead of the given OCR fallback.
func NewCascade(minTextLength int, fallback Fallback, logger *observability.Logger) *Cascade {
	if minTextLength <= 0 {
		minTextLength = domain.DefaultMinTextLength
	}
	if logger == nil {
		logger = observability.Nop()
	}
	return &Cascade{
		strategies:    []Strategy{NewLayoutStrategy(), NewRawStrategy()},
		fallback:      fallback,
		minTextLength: minTextLength,
		logger:        logger.WithComponent("extract"),
	}
}

// NewCascadeWithStrategies creates a cascade over an explicit strategy list.
// Used by tests to substitute layers.
func NewCascadeWithStrategies(minTextLength int, strategies []Strategy, fallback Fallback, logger *observability.Logger) *Cascade {
	c := NewCascade(minTextLength, fallback, logger)
	c.strategies = strategies
	return c
}

// Extract runs the cascade. The only error it returns is context
// cancellation; an exhausted cascade is reported through the result's
// Success flag so the caller can reject ingestion without treating it as an
// internal fault.
func (c *Cascade) Extract(ctx context.Context, raw []byte) (domain.ExtractionResult, error) {
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return domain.ExtractionResult{}, err
		}

		text, err := s.Attempt(ctx, raw)
		if err != nil {
			// Soft failure: try the next layer.
			c.logger.Debug().
				Str("layer", string(s.Layer())).
				Err(err).
				Msg("Strategy yielded no usable text")
			text = ""
		}

		result := domain.NewExtractionResult(text, s.Layer(), c.minTextLength)
		if result.Success {
			c.logger.Info().
				Str("layer", string(s.Layer())).
				Int("chars", len(result.Text)).
				Msg("Extraction succeeded")
			return result, nil
		}

		c.logger.Debug().
			Str("layer", string(s.Layer())).
			Int("chars", len(text)).
			Msg("Text below validity threshold, falling through")
	}

	if err := ctx.Err(); err != nil {
		return domain.ExtractionResult{}, err
	}

	c.logger.Info().Msg("Local layers exhausted, delegating to OCR fallback")
	return c.fallback.Extract(ctx, raw), nil
}
