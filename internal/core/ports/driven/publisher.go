package driven

import "context"

// Publisher posts finished Markdown to an external destination.
// The only implementation today targets a Notion database.
type Publisher interface {
	// Publish creates a page titled after the source file and returns
	// its URL. Publish failures never abort the batch; callers record
	// them alongside the local result.
	Publish(ctx context.Context, title, markdown string) (string, error)
}
