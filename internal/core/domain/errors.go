package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfigMissing indicates no configuration file exists yet.
	// The caller should direct the user to 'notedmd config --edit'.
	ErrConfigMissing = errors.New("configuration not found")

	// ErrConfigInvalid indicates the configuration file could not be parsed.
	ErrConfigInvalid = errors.New("configuration invalid")

	// ErrNoActiveProvider indicates no provider has been selected.
	ErrNoActiveProvider = errors.New("no active provider")

	// ErrProviderNotConfigured indicates the active provider is missing
	// required fields (API key, URL, or model).
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrNotionNotConfigured indicates --notion was requested but no
	// Notion credentials are saved.
	ErrNotionNotConfigured = errors.New("notion not configured")

	// ErrPathNotFound indicates the input path does not exist.
	ErrPathNotFound = errors.New("path not found")

	// ErrUnsupportedFileType indicates a file extension outside the
	// supported set (pdf, jpg, jpeg, png).
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrEmptyDirectory indicates a directory with no supported files.
	ErrEmptyDirectory = errors.New("no supported files in directory")

	// ErrInvalidAPIKey indicates the provider rejected the credentials.
	ErrInvalidAPIKey = errors.New("API key is invalid or missing")

	// ErrTranscriptionFailed indicates the provider call did not yield
	// a transcription. Network errors, non-success statuses, and
	// malformed responses all map here.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrNotionPublishFailed indicates the Notion page could not be created.
	// This never fails the local file write; the two sinks are independent.
	ErrNotionPublishFailed = errors.New("notion publish failed")

	// ErrFileWriteFailed indicates the output Markdown could not be written.
	ErrFileWriteFailed = errors.New("file write failed")

	// ErrJobsFailed indicates at least one job in a batch reached the
	// Failed state. Sibling jobs still ran to completion.
	ErrJobsFailed = errors.New("one or more files failed to convert")
)

// RateLimitError indicates the provider returned HTTP 429. The batch
// driver uses RetryAfterSeconds to delay later jobs; the failed job
// itself is not retried.
type RateLimitError struct {
	// RetryAfterSeconds is the provider's Retry-After hint.
	// Zero means the provider gave none.
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfterSeconds > 0 {
		return fmt.Sprintf("rate limited, retry after %ds", e.RetryAfterSeconds)
	}
	return "rate limited"
}
