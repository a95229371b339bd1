// Package ollama provides a transcriber adapter using a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
)

// Ensure Transcriber implements the interface.
var _ driven.Transcriber = (*Transcriber)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "gemma3:27b"
	DefaultTimeout = 120 * time.Second
)

// defaultPrompt is the fallback when no per-call prompt is supplied.
const defaultPrompt = "The user has provided an image of handwritten notes. Your task is to accurately transcribe these notes into a well-structured Markdown file. Preserve the original hierarchy, including headings and lists. Use LaTeX for any mathematical equations that appear in the notes. The output should only be the markdown content."

// Config holds configuration for the Ollama transcriber.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the vision-capable model to use (default: gemma3:27b).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Transcriber sends note files to Ollama's /api/generate endpoint.
type Transcriber struct {
	client  *http.Client
	baseURL string
	model   string
}

// generateRequest is the Ollama /api/generate request format.
type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
}

// generateResponse is the Ollama /api/generate response format.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// NewTranscriber creates a new Ollama transcriber.
func NewTranscriber(cfg Config) *Transcriber {
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
		model:   cfg.Model,
	}
}

// Transcribe sends the file as a base64 image and returns the Markdown text.
func (t *Transcriber) Transcribe(ctx context.Context, req driven.TranscriptionRequest) (string, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	reqBody := generateRequest{
		Model:  t.model,
		Prompt: prompt,
		Images: []string{base64.StdEncoding.EncodeToString(req.Data)},
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %w", domain.ErrTranscriptionFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/api/generate",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", domain.ErrTranscriptionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %w", domain.ErrTranscriptionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		// Ollama behind a reverse proxy can throttle like a cloud API.
		return "", fmt.Errorf("%w: ollama: %w", domain.ErrTranscriptionFailed, &domain.RateLimitError{})
	}
	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("%w: ollama status %d", domain.ErrTranscriptionFailed, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: ollama status %d: %s", domain.ErrTranscriptionFailed, resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", domain.ErrTranscriptionFailed, err)
	}

	return cleanMarkdown(genResp.Response), nil
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
