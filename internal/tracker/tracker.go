// Package tracker reads and writes per-item processing state on the source
// Notion database: error messages, retry counters, and the done flag.
//
// All writes are best-effort. The error and retry properties are optional in
// a given deployment's schema, so a missing property degrades to a warning
// log instead of failing the batch.
package tracker

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/model"
	"github.com/selfletter/selfletter/pkg/notion"
)

// UpdateResult classifies the outcome of a best-effort property write.
type UpdateResult int

const (
	// StatusOK means the write succeeded.
	StatusOK UpdateResult = iota
	// StatusFieldMissing means the target property does not exist in this
	// database's schema. Non-fatal.
	StatusFieldMissing
	// StatusFailed means the write failed for any other reason. Still
	// non-fatal at this layer.
	StatusFailed
)

// richTextChunk is Notion's per-block rich text limit, with headroom.
const richTextChunk = 1800

// maxErrorLen bounds the stored error message.
const maxErrorLen = 4000

// Tracker mutates work-item state through the Notion client.
type Tracker struct {
	client    notion.Client
	errorProp string
	retryProp string
	doneProp  string
}

// New creates a Tracker writing to the given property names.
func New(client notion.Client, errorProp, retryProp, doneProp string) *Tracker {
	return &Tracker{
		client:    client,
		errorProp: errorProp,
		retryProp: retryProp,
		doneProp:  doneProp,
	}
}

// SetError records an error message on the item. The message is truncated
// to the Notion property limit.
func (t *Tracker) SetError(ctx context.Context, item model.WorkItem, msg string) UpdateResult {
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}

	_, err := t.client.UpdatePage(ctx, item.PageID, &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			t.errorProp: notionapi.RichTextProperty{
				RichText: richText(msg),
			},
		},
	})
	return t.classify(err, t.errorProp, item.PageID, "set error")
}

// IncrementRetry writes current+1 to the retry counter.
func (t *Tracker) IncrementRetry(ctx context.Context, item model.WorkItem, current int) UpdateResult {
	count := float64(current + 1)
	_, err := t.client.UpdatePage(ctx, item.PageID, &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			t.retryProp: notionapi.NumberProperty{
				Number: count,
			},
		},
	})
	return t.classify(err, t.retryProp, item.PageID, "increment retry")
}

// MarkDone sets the completion checkbox. Failure is logged but never rolls
// back an already-persisted summary.
func (t *Tracker) MarkDone(ctx context.Context, item model.WorkItem) UpdateResult {
	_, err := t.client.UpdatePage(ctx, item.PageID, &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			t.doneProp: notionapi.CheckboxProperty{
				Checkbox: true,
			},
		},
	})
	return t.classify(err, t.doneProp, item.PageID, "mark done")
}

// classify converts a write error into an UpdateResult and logs it. A
// schema mismatch ("does not exist" from the API) is a warning; anything
// else is an error log, but neither aborts the caller.
func (t *Tracker) classify(err error, prop, pageID, op string) UpdateResult {
	if err == nil {
		return StatusOK
	}
	if strings.Contains(err.Error(), "does not exist") {
		zap.L().Warn("tracker: property not found in database schema, skipping write",
			zap.String("property", prop),
			zap.String("operation", op),
			zap.String("page_id", pageID),
		)
		return StatusFieldMissing
	}
	zap.L().Error("tracker: property write failed",
		zap.String("property", prop),
		zap.String("operation", op),
		zap.String("page_id", pageID),
		zap.Error(err),
	)
	return StatusFailed
}

// richText splits a string into Notion rich text blocks within the per-block
// size limit.
func richText(s string) []notionapi.RichText {
	if s == "" {
		return []notionapi.RichText{{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: ""},
		}}
	}
	var blocks []notionapi.RichText
	for len(s) > 0 {
		n := min(len(s), richTextChunk)
		blocks = append(blocks, notionapi.RichText{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{Content: s[:n]},
		})
		s = s[n:]
	}
	return blocks
}
