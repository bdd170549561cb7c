package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selfletter/selfletter/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestCreateAndFinishRun(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "2026-03-14", run.Date)
	assert.False(t, run.StartedAt.IsZero())

	run.Processed = 3
	run.Total = 5
	run.NewsletterPath = "newsletter/2026-03-14/daily-newsletter.md"
	require.NoError(t, st.FinishRun(ctx, run))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 3, runs[0].Processed)
	assert.Equal(t, 5, runs[0].Total)
	assert.Equal(t, run.NewsletterPath, runs[0].NewsletterPath)
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestListRuns_OrderAndLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.CreateRun(ctx, "2026-03-14")
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, !runs[0].StartedAt.Before(runs[1].StartedAt))
}

func TestListRuns_UnfinishedRunHasFallbackTimestamp(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "2026-03-14")
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	// finished_at is NULL; COALESCE falls back to started_at.
	assert.Equal(t, run.StartedAt.Unix(), runs[0].FinishedAt.Unix())
}

func TestRecordItem(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "2026-03-14")
	require.NoError(t, err)

	require.NoError(t, st.RecordItem(ctx, model.RunItem{
		RunID:       run.ID,
		PageID:      "page-1",
		URL:         "https://arxiv.org/abs/1",
		ContentType: model.TypeArxiv,
		Status:      model.ItemSucceeded,
	}))
	require.NoError(t, st.RecordItem(ctx, model.RunItem{
		RunID:  run.ID,
		PageID: "page-2",
		URL:    "https://example.com",
		Status: model.ItemFailed,
		Error:  "extraction failed",
	}))

	var count int
	require.NoError(t, st.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM run_items WHERE run_id = ?`, run.ID).Scan(&count))
	assert.Equal(t, 2, count)
}
