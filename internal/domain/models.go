package domain

import (
	"strings"
	"time"
)

// SourceLayer identifies which extraction strategy produced a result.
// Layer ordering is fixed: LayerLayout before LayerRaw before LayerOCR.
type SourceLayer string

const (
	LayerLayout SourceLayer = "LAYOUT"
	LayerRaw    SourceLayer = "RAW"
	LayerOCR    SourceLayer = "OCR"
)

// DefaultMinTextLength is the default validity threshold for extracted text.
// Text at or below this length counts as a failed extraction. Tunable via
// config; the optimal value is corpus-dependent.
const DefaultMinTextLength = 50

// ExtractionResult is the outcome of running one strategy (or the full
// cascade) over a document's raw bytes.
type ExtractionResult struct {
	Text    string      `json:"text"`
	Layer   SourceLayer `json:"source_layer"`
	Success bool        `json:"success"`
}

// NewExtractionResult builds a result, deriving Success from the threshold:
// success iff len(trimmed text) > minTextLength.
func NewExtractionResult(text string, layer SourceLayer, minTextLength int) ExtractionResult {
	trimmed := strings.TrimSpace(text)
	return ExtractionResult{
		Text:    text,
		Layer:   layer,
		Success: len(trimmed) > minTextLength,
	}
}

// Session binds an opaque id to one document's extracted text for the
// lifetime of the process. Records are immutable after creation; callers
// hold only the id.
type Session struct {
	ID           string    `json:"id"`
	DocumentText string    `json:"document_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// Risk is a single identified legal risk, quoting the offending clause.
type Risk struct {
	Quote       string `json:"quote"`
	Explanation string `json:"explanation"`
}

// AnalysisResult holds up to MaxRisks risks, each with a quote traceable to
// the session's document text.
type AnalysisResult struct {
	Risks []Risk `json:"risks"`
}

// MaxRisks caps how many risks an analysis may return.
const MaxRisks = 3

// ChatTurn pairs a user query with the grounded answer for that session.
type ChatTurn struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// RewriteResult holds a clause rewritten in the client's favor. Stateless;
// no session dependency.
type RewriteResult struct {
	RewrittenText string `json:"rewritten_text"`
}

// CleanText strips markdown bolding artifacts and surrounding whitespace
// from generated text.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	return strings.TrimSpace(text)
}

// NormalizeForMatch collapses all whitespace runs to single spaces so that
// quotes can be matched against source text despite linebreak drift.
func NormalizeForMatch(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsVerbatim reports whether quote appears in text, tolerating
// whitespace differences only. An empty quote never matches.
func ContainsVerbatim(text, quote string) bool {
	q := NormalizeForMatch(quote)
	if q == "" {
		return false
	}
	return strings.Contains(NormalizeForMatch(text), q)
}
