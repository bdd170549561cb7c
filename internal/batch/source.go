package batch

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/selfletter/selfletter/internal/config"
	"github.com/selfletter/selfletter/internal/model"
	"github.com/selfletter/selfletter/pkg/notion"
)

// ItemSource yields the work items queued for a target date.
type ItemSource interface {
	Fetch(ctx context.Context, date string) ([]model.WorkItem, error)
}

// notionSource reads work items from the source Notion database.
type notionSource struct {
	client notion.Client
	cfg    config.NotionConfig
}

// NewNotionSource creates an ItemSource over the configured Notion database.
func NewNotionSource(client notion.Client, cfg config.NotionConfig) ItemSource {
	return &notionSource{client: client, cfg: cfg}
}

func (s *notionSource) Fetch(ctx context.Context, date string) ([]model.WorkItem, error) {
	pages, err := notion.QueryUnprocessed(ctx, s.client, s.cfg.SourceDB, s.cfg.DoneProp, s.cfg.CreatedProp, date)
	if err != nil {
		return nil, eris.Wrap(err, "batch: query unprocessed items")
	}

	items := make([]model.WorkItem, 0, len(pages))
	for _, page := range pages {
		items = append(items, model.ItemFromPage(page, s.cfg.URLProp, s.cfg.RetryProp))
	}
	return items, nil
}
