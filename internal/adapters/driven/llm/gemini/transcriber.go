// Package gemini provides a transcriber adapter using the Google Gemini API
// through the official genai SDK.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
)

// Ensure Transcriber implements the interface.
var _ driven.Transcriber = (*Transcriber)(nil)

// Default configuration values.
const (
	DefaultModel   = "gemini-2.5-flash"
	DefaultTimeout = 120 * time.Second
)

// defaultPrompt instructs the model to transcribe faithfully with
// $$-delimited LaTeX, suitable for Obsidian.
const defaultPrompt = "Take the handwritten notes from this image and convert them into a clean, well-structured Markdown file. Pay attention to headings, lists, and any other formatting. Resemble the hierarchy. Use latex for mathematical equations. For latex use the $$ syntax instead of ```latex. Do not skip anything from the original text. The output should be suitable for use in Obsidian. Just give me the markdown, do not include other text in the response apart from the markdown file. No explanation on how the changes were made is needed"

// Config holds configuration for the Gemini transcriber.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the model to use (default: gemini-2.5-flash).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Transcriber sends note files to the Gemini API.
type Transcriber struct {
	client *genai.Client
	model  string
}

// NewTranscriber creates a new Gemini transcriber.
func NewTranscriber(cfg Config) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Transcriber{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Transcribe sends the file as inline data and returns the Markdown text.
func (t *Transcriber) Transcribe(ctx context.Context, req driven.TranscriptionRequest) (string, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = defaultPrompt
	}

	contents := []*genai.Content{{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: req.MIMEType, Data: req.Data}},
		},
	}}

	result, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		if strings.Contains(err.Error(), "401") || strings.Contains(err.Error(), "API key") {
			return "", fmt.Errorf("%w: %w", domain.ErrTranscriptionFailed, domain.ErrInvalidAPIKey)
		}
		if strings.Contains(err.Error(), "429") || strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
			return "", fmt.Errorf("%w: gemini: %w", domain.ErrTranscriptionFailed, &domain.RateLimitError{})
		}
		return "", fmt.Errorf("%w: gemini: %w", domain.ErrTranscriptionFailed, err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: gemini: empty response", domain.ErrTranscriptionFailed)
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	return cleanMarkdown(text.String()), nil
}

// ModelName returns the model handling the requests.
func (t *Transcriber) ModelName() string {
	return t.model
}

// Close releases resources.
func (t *Transcriber) Close() error {
	// The genai client holds no connections that need explicit cleanup
	return nil
}

// cleanMarkdown strips the code fence some models wrap their answer in.
func cleanMarkdown(s string) string {
	s = strings.TrimPrefix(s, "```markdown\n")
	return strings.TrimSuffix(s, "```")
}
