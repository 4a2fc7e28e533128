package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/clausewise/contract-engine/internal/domain"
	"github.com/clausewise/contract-engine/internal/extract"
	"github.com/clausewise/contract-engine/internal/query"
	"github.com/clausewise/contract-engine/internal/session"
)

// fixedStrategy satisfies extract.Strategy with canned text.
type fixedStrategy struct {
	layer domain.SourceLayer
	text  string
}

func (s fixedStrategy) Layer() domain.SourceLayer { return s.layer }

func (s fixedStrategy) Attempt(ctx context.Context, raw []byte) (string, error) {
	return s.text, nil
}

// failedFallback always reports OCR failure.
type failedFallback struct{}

func (failedFallback) Extract(ctx context.Context, raw []byte) domain.ExtractionResult {
	return domain.ExtractionResult{Layer: domain.LayerOCR, Success: false}
}

// fixedGenerator satisfies query.Generator with a canned completion.
type fixedGenerator struct {
	response string
	err      error
}

func (g fixedGenerator) Complete(ctx context.Context, system, prompt string) (string, error) {
	return g.response, g.err
}

func testRouter(gen query.Generator, extractedText string) (http.Handler, session.Store) {
	sessions := session.NewMemoryStore()
	cascade := extract.NewCascadeWithStrategies(
		50,
		[]extract.Strategy{fixedStrategy{layer: domain.LayerLayout, text: extractedText}},
		failedFallback{},
		nil,
	)
	queries := query.NewService(gen, sessions, nil)

	r := chi.NewRouter()
	r.Post("/api/v1/documents", NewDocumentHandler(nil, cascade, sessions, 1<<20).Upload)
	r.Post("/api/v1/sessions/{sessionId}/analyze", NewAnalysisHandler(nil, queries).Analyze)
	r.Post("/api/v1/sessions/{sessionId}/chat", NewChatHandler(nil, queries).Chat)
	r.Post("/api/v1/rewrite", NewRewriteHandler(nil, queries).Rewrite)
	return r, sessions
}

func multipartPDF(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "contract.pdf")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("%PDF-1.4 fake"))
	w.Close()
	return &body, w.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	router, _ := testRouter(fixedGenerator{}, strings.Repeat("contract text ", 10))

	body, contentType := multipartPDF(t)
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Error("session_id missing")
	}
	if resp.SourceLayer != string(domain.LayerLayout) {
		t.Errorf("source_layer = %s", resp.SourceLayer)
	}
}

func TestUpload_ExtractionFailure(t *testing.T) {
	router, _ := testRouter(fixedGenerator{}, "too short")

	body, contentType := multipartPDF(t)
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestUpload_MissingFile(t *testing.T) {
	router, _ := testRouter(fixedGenerator{}, "")

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.WriteField("other", "value")
	w.Close()

	req := httptest.NewRequest("POST", "/api/v1/documents", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyze_SessionNotFound(t *testing.T) {
	router, _ := testRouter(fixedGenerator{}, "")

	req := httptest.NewRequest("POST", "/api/v1/sessions/deadbeef/analyze", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAnalyze_Success(t *testing.T) {
	document := "The Provider may terminate this agreement at any time. " + strings.Repeat("x", 50)
	response := `{"risks":[{"quote":"The Provider may terminate this agreement at any time.","explanation":"One-sided."}]}`

	router, sessions := testRouter(fixedGenerator{response: response}, document)
	id, err := sessions.Create(context.Background(), document)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/analyze", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp AnalysisResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID != id {
		t.Errorf("session_id = %s", resp.SessionID)
	}
	if len(resp.Risks) != 1 {
		t.Errorf("risks = %d, want 1", len(resp.Risks))
	}
}

func TestChat_Flow(t *testing.T) {
	router, sessions := testRouter(fixedGenerator{response: "Ninety days."}, "")
	id, err := sessions.Create(context.Background(), "Invoices are due in ninety days.")
	if err != nil {
		t.Fatal(err)
	}

	payload := `{"query":"When are invoices due?"}`
	req := httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/chat", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp ChatResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "Ninety days." {
		t.Errorf("answer = %q", resp.Answer)
	}
}

func TestChat_EmptyQuery(t *testing.T) {
	router, sessions := testRouter(fixedGenerator{}, "")
	id, _ := sessions.Create(context.Background(), "doc")

	req := httptest.NewRequest("POST", "/api/v1/sessions/"+id+"/chat", strings.NewReader(`{"query":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRewrite_Flow(t *testing.T) {
	router, _ := testRouter(fixedGenerator{response: "Rewritten clause."}, "")

	payload := `{"clauseText":"The Provider may terminate at will."}`
	req := httptest.NewRequest("POST", "/api/v1/rewrite", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp RewriteResponseDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RewrittenText != "Rewritten clause." {
		t.Errorf("rewritten_text = %q", resp.RewrittenText)
	}
}

func TestRewrite_GenerationFailure(t *testing.T) {
	router, _ := testRouter(fixedGenerator{err: domain.GenerationError("upstream down", nil)}, "")

	req := httptest.NewRequest("POST", "/api/v1/rewrite", strings.NewReader(`{"clauseText":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
