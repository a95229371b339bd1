package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// JobStatus tracks a job through its lifecycle.
// Transitions: Pending -> InFlight -> {Done, Failed}.
type JobStatus string

// Job states.
const (
	JobPending  JobStatus = "pending"
	JobInFlight JobStatus = "in_flight"
	JobDone     JobStatus = "done"
	JobFailed   JobStatus = "failed"
)

// ConversionJob is one file's end-to-end conversion unit of work.
// Jobs are immutable once built and consumed exactly once by the
// conversion service.
type ConversionJob struct {
	// ID is the unique job identifier.
	ID string

	// SourcePath is the input file.
	SourcePath string

	// MIMEType is resolved from the file extension at creation time.
	MIMEType string

	// Prompt overrides the provider's default prompt for this job only.
	// Empty means use the default. The override is never persisted.
	Prompt string

	// OutputDir is the destination directory. Empty means alongside
	// the source file.
	OutputDir string
}

// OutputPath is where the Markdown for this job is written: the source
// base name with a .md extension, in OutputDir when set, else next to
// the source. A pre-existing file at this path is overwritten.
func (j ConversionJob) OutputPath() string {
	name := filepath.Base(j.SourcePath)
	ext := filepath.Ext(name)
	name = strings.TrimSuffix(name, ext) + ".md"

	if j.OutputDir != "" {
		return filepath.Join(j.OutputDir, name)
	}
	return filepath.Join(filepath.Dir(j.SourcePath), name)
}

// Title is the human-readable name used for Notion pages.
func (j ConversionJob) Title() string {
	return filepath.Base(j.SourcePath)
}

// ConversionResult is the terminal outcome of a single job.
// One is produced per job and never mutated after creation.
type ConversionResult struct {
	Job    ConversionJob
	Status JobStatus

	// OutputPath is set on success.
	OutputPath string

	// Err holds the failure cause when Status is JobFailed.
	Err error

	// NotionURL is the created page URL when the Notion sink was used.
	NotionURL string

	// NotionErr records a sink failure. It does not fail the job;
	// the local write and the Notion publish are independent.
	NotionErr error

	// Duration is the wall-clock time the job spent in flight.
	Duration time.Duration
}

// Succeeded reports whether the job reached the Done state.
func (r ConversionResult) Succeeded() bool {
	return r.Status == JobDone
}

// BatchSummary aggregates a finished run.
type BatchSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []ConversionResult
}
