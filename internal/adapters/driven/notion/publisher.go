// Package notion provides the Notion sink: it converts finished Markdown
// into Notion block objects and creates a page in the configured database.
package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/notedmd/notedmd-cli/internal/core/domain"
	"github.com/notedmd/notedmd-cli/internal/core/ports/driven"
)

// Ensure Publisher implements the interface.
var _ driven.Publisher = (*Publisher)(nil)

// defaultTitleProperty is the title column most Notion databases ship with.
const defaultTitleProperty = "Name"

// Publisher creates pages in a single configured Notion database.
type Publisher struct {
	client        *notionapi.Client
	databaseID    notionapi.DatabaseID
	titleProperty string
}

// NewPublisher creates a Notion publisher from the persisted configuration.
func NewPublisher(cfg *domain.NotionConfig) (*Publisher, error) {
	if cfg == nil || cfg.APIKey == "" || cfg.DatabaseID == "" {
		return nil, domain.ErrNotionNotConfigured
	}

	titleProperty := cfg.TitleProperty
	if titleProperty == "" {
		titleProperty = defaultTitleProperty
	}

	return &Publisher{
		client:        notionapi.NewClient(notionapi.Token(cfg.APIKey)),
		databaseID:    notionapi.DatabaseID(cfg.DatabaseID),
		titleProperty: titleProperty,
	}, nil
}

// Publish converts the Markdown to blocks and creates a database page
// titled after the source file. Returns the created page URL.
func (p *Publisher) Publish(ctx context.Context, title, markdown string) (string, error) {
	blocks := ConvertMarkdown([]byte(markdown))

	page, err := p.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: p.databaseID,
		},
		Properties: notionapi.Properties{
			p.titleProperty: notionapi.TitleProperty{
				Title: []notionapi.RichText{richText(title)},
			},
		},
		Children: blocks,
	})
	if err != nil {
		return "", fmt.Errorf("creating notion page: %w", err)
	}

	return page.URL, nil
}
