// Package store keeps a local history of batch runs and per-item outcomes.
// It is observability only: the Notion database and the summary file tree
// remain the systems of record.
package store

import (
	"context"

	"github.com/selfletter/selfletter/internal/model"
)

// Store defines the persistence interface for run history.
type Store interface {
	CreateRun(ctx context.Context, date string) (*model.Run, error)
	FinishRun(ctx context.Context, run *model.Run) error
	RecordItem(ctx context.Context, item model.RunItem) error
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
