package driven

import (
	"context"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
)

// HistoryStore persists finished conversion jobs.
type HistoryStore interface {
	// Record stores one terminal job outcome.
	Record(ctx context.Context, rec domain.ConversionRecord) error

	// List returns records newest first, narrowed by the filter.
	List(ctx context.Context, filter domain.HistoryFilter) ([]domain.ConversionRecord, error)

	// Close releases the underlying storage.
	Close() error
}
