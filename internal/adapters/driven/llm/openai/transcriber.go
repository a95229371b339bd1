// Package openai provides a transcriber adapter for OpenAI-compatible
// servers (OpenAI, LM Studio, vLLM, llama.cpp).
package openai

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
	DefaultBaseURL = "http://localhost:1234"
	DefaultTimeout = 120 * time.Second
)

// defaultPrompt is the fallback when no per-call prompt is supplied.
const defaultPrompt = "The user has provided an image of handwritten notes. Your task is to accurately transcribe these notes into a well-structured Markdown file. Preserve the original hierarchy, including headings and lists. Use LaTeX for any mathematical equations that appear in the notes. The output should only be the markdown content."

// Config holds configuration for the OpenAI-compatible transcriber.
type Config struct {
	// BaseURL is the server base URL (default: http://localhost:1234).
	BaseURL string

	// Model is the model to use (required).
	Model string

	// APIKey is optional; local servers usually run without one.
	APIKey string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Transcriber sends note files to a /v1/chat/completions endpoint.
type Transcriber struct {
	client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

// chatRequest is the /v1/chat/completions request format.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatResponse is the /v1/chat/completions response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewTranscriber creates a new OpenAI-compatible transcriber.
func NewTranscriber(cfg Config) (*Transcriber, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai: model is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Transcriber{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
	}, nil
}

// Transcribe sends the file as a data URL and returns the Markdown text.
func (t *Transcriber) Transcribe(ctx context.Context, req driven.TranscriptionRequest) (string, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", req.MIMEType, base64.StdEncoding.EncodeToString(req.Data))

	reqBody := chatRequest{
		Model: t.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
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
		t.baseURL+"/v1/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrTranscriptionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

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
		return "", fmt.Errorf("%w: %w", domain.ErrTranscriptionFailed,
			&domain.RateLimitError{RetryAfterSeconds: retryAfterSeconds(resp.Header.Get("Retry-After"))})
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%w: status %d: %s", domain.ErrTranscriptionFailed, resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrTranscriptionFailed, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrTranscriptionFailed, chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrTranscriptionFailed, resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrTranscriptionFailed)
	}

	return cleanMarkdown(chatResp.Choices[0].Message.Content), nil
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

// retryAfterSeconds parses a delay-seconds Retry-After header.
// Anything else maps to zero (no hint).
func retryAfterSeconds(header string) int {
	seconds, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
