package newsletter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfletter/selfletter/internal/model"
)

func TestSeen_FindsPersistedURL(t *testing.T) {
	w := NewWriter(t.TempDir())
	ctx := context.Background()

	_, err := w.Save(model.Summary{
		Title: "Known", SourceURL: "https://example.com/known", Type: model.TypeArticle, Body: "b",
	}, "2026-03-13")
	require.NoError(t, err)

	assert.True(t, w.Seen(ctx, "https://example.com/known"))
	assert.False(t, w.Seen(ctx, "https://example.com/other"))

	// Read-only and idempotent.
	assert.True(t, w.Seen(ctx, "https://example.com/known"))
}

func TestSeen_AcrossDates(t *testing.T) {
	w := NewWriter(t.TempDir())
	ctx := context.Background()

	_, err := w.Save(model.Summary{
		Title: "Old", SourceURL: "https://example.com/old", Type: model.TypeArxiv, Body: "b",
	}, "2026-03-01")
	require.NoError(t, err)

	// A later run still sees URLs persisted under earlier dates.
	assert.True(t, w.Seen(ctx, "https://example.com/old"))
}

func TestSeen_MissingRootAndEmptyURL(t *testing.T) {
	w := NewWriter("/nonexistent/newsletter/root")
	assert.False(t, w.Seen(context.Background(), "https://example.com"))

	w2 := NewWriter(t.TempDir())
	assert.False(t, w2.Seen(context.Background(), ""))
}
