package driving

import (
	"context"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

// ConversionRequest describes one invocation of the batch driver.
type ConversionRequest struct {
	// Path is a single supported file or a directory of them.
	Path string

	// OutputDir places results in a directory instead of next to
	// their sources. Created on demand.
	OutputDir string

	// Prompt overrides the default prompt for every job in this run.
	// The override is scoped to the run and never persisted.
	Prompt string

	// Publish forwards successful results to the Notion sink.
	Publish bool
}

// ConversionService runs conversion batches. A per-job failure does not
// halt sibling jobs; configuration and path-resolution failures abort
// the run before any job starts.
type ConversionService interface {
	// Convert resolves the path, runs every job to a terminal state,
	// and returns the aggregated summary. The summary is valid even
	// when some jobs failed.
	Convert(ctx context.Context, req ConversionRequest) (*domain.BatchSummary, error)
}

// ProgressReporter observes a batch run. Implementations must tolerate
// concurrent calls when the driver runs with a worker pool.
type ProgressReporter interface {
	// BatchStarted is called once with the resolved job count.
	BatchStarted(total int)

	// JobStarted is called when a job moves to InFlight.
	JobStarted(job domain.ConversionJob)

	// JobFinished is called on each terminal state transition.
	JobFinished(result domain.ConversionResult)

	// BatchFinished is called once after every job is terminal.
	BatchFinished(summary domain.BatchSummary)
}
