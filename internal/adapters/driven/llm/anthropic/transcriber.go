// Package anthropic provides a transcriber adapter using the Anthropic API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
)

// Ensure Transcriber implements the interface.
var _ driven.Transcriber = (*Transcriber)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-sonnet-4-20250514"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"

	// maxTokens bounds the transcription length. Handwritten pages
	// rarely exceed this.
	maxTokens = 4096
)

// defaultPrompt instructs the model to transcribe faithfully with
// $$-delimited LaTeX, suitable for Obsidian.
const defaultPrompt = "Take the handwritten notes from this image and convert them into a clean, well-structured Markdown file. Pay attention to headings, lists, and any other formatting. Resemble the hierarchy. Use latex for mathematical equations. For latex use the $$ syntax instead of ```latex. Do not skip anything from the original text. The output should be suitable for use in Obsidian. Just give me the markdown, do not include other text in the response apart from the markdown file. No explanation on how the changes were made is needed"

// Config holds configuration for the Anthropic transcriber.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-sonnet-4-20250514).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Transcriber sends note files to the Anthropic Messages API.
type Transcriber struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *blockSource `json:"source,omitempty"`
}

type blockSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewTranscriber creates a new Anthropic transcriber.
func NewTranscriber(cfg Config) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Transcriber{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Transcribe sends the file as an inline base64 block and returns the
// Markdown text. PDFs travel as document blocks, images as image blocks.
func (t *Transcriber) Transcribe(ctx context.Context, req driven.TranscriptionRequest) (string, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	blockType := "image"
	if req.MIMEType == "application/pdf" {
		blockType = "document"
	}

	reqBody := messagesRequest{
		Model:     t.model,
		MaxTokens: maxTokens,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Type: "text", Text: prompt},
				{Type: blockType, Source: &blockSource{
					Type:      "base64",
					MediaType: req.MIMEType,
					Data:      base64.StdEncoding.EncodeToString(req.Data),
				}},
			},
		}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %w", domain.ErrTranscriptionFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrTranscriptionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", t.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %w", domain.ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrTranscriptionFailed, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: %w", domain.ErrTranscriptionFailed, domain.ErrInvalidAPIKey)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: anthropic: %w", domain.ErrTranscriptionFailed,
			&domain.RateLimitError{RetryAfterSeconds: retryAfterSeconds(resp.Header.Get("Retry-After"))})
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%w: anthropic status %d: %s", domain.ErrTranscriptionFailed, resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrTranscriptionFailed, err)
	}

	if msgResp.Error != nil {
		return "", fmt.Errorf("%w: anthropic: %s", domain.ErrTranscriptionFailed, msgResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: anthropic status %d", domain.ErrTranscriptionFailed, resp.StatusCode)
	}
	if len(msgResp.Content) == 0 {
		return "", fmt.Errorf("%w: anthropic: no content returned", domain.ErrTranscriptionFailed)
	}

	var result strings.Builder
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			result.WriteString(block.Text)
		}
	}

	return cleanMarkdown(result.String()), nil
}

// ModelName returns the model handling the requests.
func (t *Transcriber) ModelName() string {
	return t.model
}

// Close releases resources.
func (t *Transcriber) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// cleanMarkdown strips the code fence some models wrap their answer in.
func cleanMarkdown(s string) string {
	s = strings.TrimPrefix(s, "```markdown\n")
	return strings.TrimSuffix(s, "```")
}

// retryAfterSeconds parses a Retry-After header. Anthropic sends the
// delay-seconds form; anything else maps to zero (no hint).
func retryAfterSeconds(header string) int {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
