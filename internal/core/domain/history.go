package domain

import "time"

// ConversionRecord is one row of conversion history. Every job that
// reaches a terminal state is recorded, successes and failures alike.
type ConversionRecord struct {
	// ID is the job ID that produced this record.
	ID string

	// SourcePath is the input file that was converted.
	SourcePath string

	// OutputPath is the Markdown destination. Empty for failed jobs.
	OutputPath string

	// Provider is the backend that handled the job.
	Provider Provider

	// Model is the model name reported by the transcriber.
	Model string

	// Status is the terminal job state, JobDone or JobFailed.
	Status JobStatus

	// Error is the failure message. Empty for successful jobs.
	Error string

	// NotionURL is the created page URL, when the Notion sink was used.
	NotionURL string

	// CreatedAt is when the job finished.
	CreatedAt time.Time
}

// HistoryFilter narrows a history listing.
type HistoryFilter struct {
	// Limit caps the number of records returned, newest first.
	// Zero means the store's default.
	Limit int

	// FailedOnly restricts the listing to failed jobs.
	FailedOnly bool
}
