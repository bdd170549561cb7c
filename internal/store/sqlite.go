package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/selfletter/selfletter/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	date            TEXT NOT NULL,
	started_at      DATETIME NOT NULL,
	finished_at     DATETIME,
	processed       INTEGER NOT NULL DEFAULT 0,
	total           INTEGER NOT NULL DEFAULT 0,
	newsletter_path TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS run_items (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	page_id      TEXT NOT NULL,
	url          TEXT NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(date);
CREATE INDEX IF NOT EXISTS idx_run_items_run_id ON run_items(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, date string) (*model.Run, error) {
	run := &model.Run{
		ID:        uuid.NewString(),
		Date:      date,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, date, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Date, run.StartedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: create run")
	}
	return run, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run *model.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, total = ?, newsletter_path = ? WHERE id = ?`,
		run.FinishedAt, run.Processed, run.Total, run.NewsletterPath, run.ID,
	)
	return eris.Wrap(err, "sqlite: finish run")
}

func (s *SQLiteStore) RecordItem(ctx context.Context, item model.RunItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_items (run_id, page_id, url, content_type, status, error)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.RunID, item.PageID, item.URL, string(item.ContentType), string(item.Status), item.Error,
	)
	return eris.Wrap(err, "sqlite: record item")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, started_at, finished_at, processed, total, newsletter_path
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		// COALESCE(finished_at, started_at) in SQL loses the DATETIME
		// decltype, so the driver returns a string; apply the fallback here.
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Date, &r.StartedAt, &finished, &r.Processed, &r.Total, &r.NewsletterPath); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.FinishedAt = r.StartedAt
		if finished.Valid {
			r.FinishedAt = finished.Time
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}
