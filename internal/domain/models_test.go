package domain

import (
	"strings"
	"testing"
)

func TestNewExtractionResult_Threshold(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		minTextLength int
		wantSuccess   bool
	}{
		{
			name:          "empty text",
			text:          "",
			minTextLength: 50,
			wantSuccess:   false,
		},
		{
			name:          "exactly at threshold fails",
			text:          strings.Repeat("a", 50),
			minTextLength: 50,
			wantSuccess:   false,
		},
		{
			name:          "one over threshold succeeds",
			text:          strings.Repeat("a", 51),
			minTextLength: 50,
			wantSuccess:   true,
		},
		{
			name:          "whitespace padding does not count",
			text:          strings.Repeat("a", 40) + strings.Repeat(" ", 100),
			minTextLength: 50,
			wantSuccess:   false,
		},
		{
			name:          "interior whitespace counts",
			text:          strings.Repeat("a ", 30),
			minTextLength: 50,
			wantSuccess:   true,
		},
		{
			name:          "custom threshold",
			text:          "short but valid",
			minTextLength: 5,
			wantSuccess:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewExtractionResult(tt.text, LayerLayout, tt.minTextLength)
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantSuccess)
			}
			if result.Text != tt.text {
				t.Error("Text must be preserved unmodified")
			}
			if result.Layer != LayerLayout {
				t.Errorf("Layer = %s, want %s", result.Layer, LayerLayout)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips bold markers",
			input: "This is **important** text",
			want:  "This is important text",
		},
		{
			name:  "strips single asterisks",
			input: "bullet *one* and *two*",
			want:  "bullet one and two",
		},
		{
			name:  "trims surrounding whitespace",
			input: "  padded  ",
			want:  "padded",
		},
		{
			name:  "plain text unchanged",
			input: "nothing to clean",
			want:  "nothing to clean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContainsVerbatim(t *testing.T) {
	document := "The Client shall indemnify\nthe   Provider against all\nclaims arising hereunder."

	tests := []struct {
		name  string
		quote string
		want  bool
	}{
		{
			name:  "exact substring",
			quote: "indemnify",
			want:  true,
		},
		{
			name:  "quote spanning a linebreak",
			quote: "shall indemnify the Provider",
			want:  true,
		},
		{
			name:  "quote with collapsed whitespace",
			quote: "the Provider against all claims",
			want:  true,
		},
		{
			name:  "paraphrased quote",
			quote: "the Provider must be indemnified",
			want:  false,
		},
		{
			name:  "empty quote never matches",
			quote: "",
			want:  false,
		},
		{
			name:  "whitespace-only quote never matches",
			quote: "   \n\t",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsVerbatim(document, tt.quote); got != tt.want {
				t.Errorf("ContainsVerbatim(%q) = %v, want %v", tt.quote, got, tt.want)
			}
		})
	}
}

func TestNormalizeForMatch(t *testing.T) {
	got := NormalizeForMatch("  a\tb\n\nc   d ")
	if got != "a b c d" {
		t.Errorf("NormalizeForMatch = %q, want %q", got, "a b c d")
	}
}
