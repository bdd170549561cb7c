package tracker

import (
	"context"
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfletter/selfletter/internal/model"
)

// fakeNotion records page updates and returns a configurable error.
type fakeNotion struct {
	updates []notionapi.PageUpdateRequest
	pageIDs []string
	err     error
}

func (f *fakeNotion) QueryDatabase(_ context.Context, _ string, _ *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	return &notionapi.DatabaseQueryResponse{}, nil
}

func (f *fakeNotion) UpdatePage(_ context.Context, pageID string, req *notionapi.PageUpdateRequest) (*notionapi.Page, error) {
	f.updates = append(f.updates, *req)
	f.pageIDs = append(f.pageIDs, pageID)
	if f.err != nil {
		return nil, f.err
	}
	return &notionapi.Page{}, nil
}

var testItem = model.WorkItem{PageID: "page-1", URL: "https://example.com"}

func TestSetError_WritesRichText(t *testing.T) {
	fake := &fakeNotion{}
	trk := New(fake, "Last error", "Retry count", "Summarized")

	res := trk.SetError(context.Background(), testItem, "extraction failed")
	assert.Equal(t, StatusOK, res)

	require.Len(t, fake.updates, 1)
	assert.Equal(t, "page-1", fake.pageIDs[0])
	prop, ok := fake.updates[0].Properties["Last error"].(notionapi.RichTextProperty)
	require.True(t, ok)
	require.Len(t, prop.RichText, 1)
	assert.Equal(t, "extraction failed", prop.RichText[0].Text.Content)
}

func TestSetError_TruncatesAndChunks(t *testing.T) {
	fake := &fakeNotion{}
	trk := New(fake, "Last error", "Retry count", "Summarized")

	res := trk.SetError(context.Background(), testItem, strings.Repeat("e", 5000))
	assert.Equal(t, StatusOK, res)

	prop := fake.updates[0].Properties["Last error"].(notionapi.RichTextProperty)
	// 5000 chars truncate to 4000, split into 1800-char blocks.
	require.Len(t, prop.RichText, 3)
	assert.Len(t, prop.RichText[0].Text.Content, 1800)
	assert.Len(t, prop.RichText[1].Text.Content, 1800)
	assert.Len(t, prop.RichText[2].Text.Content, 400)
}

func TestSetError_MissingPropertyIsNonFatal(t *testing.T) {
	fake := &fakeNotion{err: eris.New("property Last error does not exist")}
	trk := New(fake, "Last error", "Retry count", "Summarized")

	res := trk.SetError(context.Background(), testItem, "boom")
	assert.Equal(t, StatusFieldMissing, res)
}

func TestSetError_OtherFailure(t *testing.T) {
	fake := &fakeNotion{err: eris.New("rate limited")}
	trk := New(fake, "Last error", "Retry count", "Summarized")

	res := trk.SetError(context.Background(), testItem, "boom")
	assert.Equal(t, StatusFailed, res)
}

func TestIncrementRetry(t *testing.T) {
	fake := &fakeNotion{}
	trk := New(fake, "Last error", "Retry count", "Summarized")

	res := trk.IncrementRetry(context.Background(), testItem, 2)
	assert.Equal(t, StatusOK, res)

	prop, ok := fake.updates[0].Properties["Retry count"].(notionapi.NumberProperty)
	require.True(t, ok)
	assert.Equal(t, float64(3), prop.Number)
}

func TestMarkDone(t *testing.T) {
	fake := &fakeNotion{}
	trk := New(fake, "Last error", "Retry count", "Summarized")

	res := trk.MarkDone(context.Background(), testItem)
	assert.Equal(t, StatusOK, res)

	prop, ok := fake.updates[0].Properties["Summarized"].(notionapi.CheckboxProperty)
	require.True(t, ok)
	assert.True(t, prop.Checkbox)
}

func TestRichText_Empty(t *testing.T) {
	blocks := richText("")
	require.Len(t, blocks, 1)
	assert.Equal(t, "", blocks[0].Text.Content)
}
