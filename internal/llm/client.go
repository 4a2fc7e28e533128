// Package llm provides the OpenRouter chat-completions client used for OCR
// transcription and all contract query operations.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/clausewise/contract-engine/internal/domain"
	"github.com/clausewise/contract-engine/internal/observability"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "google/gemini-2.5-flash"
)

// Client handles communication with the OpenRouter API. All requests run at
// zero temperature: answers must be reproducible for a given session and
// query.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	logger     *observability.Logger
}

// Config holds LLM client configuration.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Logger     *observability.Logger
}

// NewClient creates a new LLM client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ConfigError("API key is required", nil)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.Nop()
	}

	retry := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxRetries = cfg.MaxRetries
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		logger:     logger.WithComponent("llm"),
	}, nil
}

// Message represents a chat message.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentPart `json:"content"`
}

// ContentPart represents a part of message content (text or image).
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL represents an image URL in the message.
type ImageURL struct {
	URL string `json:"url"`
}

// Request represents the API request structure.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// Response represents the API response structure.
type Response struct {
	ID      string    `json:"id"`
	Choices []Choice  `json:"choices"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice represents a single completion choice.
type Choice struct {
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

// ChoiceMessage holds the completed message content.
type ChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// APIError represents an error body returned by the API.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// Complete sends a system instruction and a user prompt and returns the
// generated text.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := []Message{
		{Role: "system", Content: []ContentPart{{Type: "text", Text: system}}},
		{Role: "user", Content: []ContentPart{{Type: "text", Text: prompt}}},
	}
	return c.complete(ctx, messages)
}

// CompleteWithImages sends a prompt alongside one or more JPEG page images,
// each embedded as a base64 data URL. Used by the OCR fallback.
func (c *Client) CompleteWithImages(ctx context.Context, prompt string, images [][]byte) (string, error) {
	parts := []ContentPart{{Type: "text", Text: prompt}}
	for _, img := range images {
		parts = append(parts, ContentPart{
			Type: "image_url",
			ImageURL: &ImageURL{
				URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img),
			},
		})
	}
	return c.complete(ctx, []Message{{Role: "user", Content: parts}})
}

func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	req := Request{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0,
		Stream:      false,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", domain.GenerationError("marshal request", err)
	}

	resp, err := c.retryWithBackoff(ctx, func() (*http.Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("X-Title", "Contract Engine")

		return c.httpClient.Do(httpReq)
	})
	if err != nil {
		return "", domain.GenerationError("send request", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.GenerationError("read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp Response
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return "", domain.GenerationError(fmt.Sprintf("API error: %s (type: %s)", errResp.Error.Message, errResp.Error.Type), nil)
		}
		return "", domain.GenerationError(fmt.Sprintf("API returned status %d", resp.StatusCode), nil)
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", domain.GenerationError("unmarshal response", err)
	}

	if len(out.Choices) == 0 {
		return "", domain.GenerationError("response contained no choices", nil)
	}

	return out.Choices[0].Message.Content, nil
}
