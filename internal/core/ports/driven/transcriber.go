package driven

import "context"

// TranscriptionRequest carries one file to a provider.
type TranscriptionRequest struct {
	// Data is the raw file content. Adapters encode it as their
	// vendor requires (base64 inline data, data URLs, etc).
	Data []byte

	// MIMEType is the resolved content type (application/pdf, image/png, ...).
	MIMEType string

	// Prompt replaces the adapter's default prompt for this call only.
	// Empty means use the default.
	Prompt string
}

// Transcriber converts a handwritten-note file into Markdown text.
// This boundary is the only place vendor-specific knowledge belongs.
//
// Implementations:
//   - Gemini (Google genai SDK)
//   - Claude (Anthropic Messages API)
//   - Ollama (local /api/generate)
//   - OpenAI-compatible (/v1/chat/completions)
type Transcriber interface {
	// Transcribe sends the file and returns the Markdown transcription.
	// Network failures, non-success statuses, credential rejection and
	// malformed responses are all surfaced as errors wrapping
	// domain.ErrTranscriptionFailed; no automatic retry is performed.
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)

	// ModelName returns the model handling the requests.
	ModelName() string

	// Close releases resources.
	Close() error
}
