package extract

import (
	"context"
	"testing"

	"github.com/clausewise/contract-engine/internal/domain"
)

func TestLayoutStrategy_Layer(t *testing.T) {
	if got := NewLayoutStrategy().Layer(); got != domain.LayerLayout {
		t.Errorf("Layer = %s, want %s", got, domain.LayerLayout)
	}
}

func TestRawStrategy_Layer(t *testing.T) {
	if got := NewRawStrategy().Layer(); got != domain.LayerRaw {
		t.Errorf("Layer = %s, want %s", got, domain.LayerRaw)
	}
}

func TestLayoutStrategy_InvalidDocument(t *testing.T) {
	_, err := NewLayoutStrategy().Attempt(context.Background(), []byte("not a pdf"))
	if err == nil {
		t.Error("expected error for non-PDF input")
	}
}

func TestRawStrategy_InvalidDocument(t *testing.T) {
	_, err := NewRawStrategy().Attempt(context.Background(), []byte("not a pdf"))
	if err == nil {
		t.Error("expected error for non-PDF input")
	}
}
