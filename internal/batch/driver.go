// Package batch orchestrates one daily run: fetch queued items, process
// each through classify → extract → summarize → persist, then compile and
// deliver the digest.
//
// Processing is strictly sequential. Each item runs inside its own fault
// boundary: a failure is recorded on the item (error text plus retry
// increment) and the loop moves on; one bad item never aborts the batch.
package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/classify"
	"github.com/selfletter/selfletter/internal/extract"
	"github.com/selfletter/selfletter/internal/model"
	"github.com/selfletter/selfletter/internal/store"
	"github.com/selfletter/selfletter/internal/tracker"
)

// Registry selects an extractor for a URL. Satisfied by *extract.Registry.
type Registry interface {
	For(url string) extract.Extractor
}

// Summarizer produces the summary text for an extracted document.
type Summarizer interface {
	Summarize(ctx context.Context, title, url, content string) (string, error)
}

// Tracker writes per-item state back to the record store.
type Tracker interface {
	SetError(ctx context.Context, item model.WorkItem, msg string) tracker.UpdateResult
	IncrementRetry(ctx context.Context, item model.WorkItem, current int) tracker.UpdateResult
	MarkDone(ctx context.Context, item model.WorkItem) tracker.UpdateResult
}

// Writer persists summaries and answers dedup queries against the output tree.
type Writer interface {
	Save(summary model.Summary, date string) (string, error)
	Seen(ctx context.Context, url string) bool
}

// Combiner compiles the date's summaries into the digest document.
type Combiner interface {
	Combine(date string) (string, error)
}

// Driver runs the daily batch.
type Driver struct {
	source     ItemSource
	registry   Registry
	summarizer Summarizer
	tracker    Tracker
	writer     Writer
	combiner   Combiner
	sender     *Sender
	store      store.Store // optional run history, best-effort

	maxRetries int
	minChars   int
	backoff    time.Duration
}

// Option configures the Driver.
type Option func(*Driver)

// WithStore enables run-history recording.
func WithStore(st store.Store) Option {
	return func(d *Driver) { d.store = st }
}

// WithSender enables digest email delivery.
func WithSender(s *Sender) Option {
	return func(d *Driver) { d.sender = s }
}

// WithBackoff overrides the post-failure sleep (tests use a zero backoff).
func WithBackoff(backoff time.Duration) Option {
	return func(d *Driver) { d.backoff = backoff }
}

// NewDriver creates a Driver. maxRetries is the per-item retry ceiling;
// minChars is the final minimum-content gate applied after extraction.
func NewDriver(
	source ItemSource,
	registry Registry,
	summarizer Summarizer,
	trk Tracker,
	writer Writer,
	combiner Combiner,
	maxRetries, minChars int,
	opts ...Option,
) *Driver {
	d := &Driver{
		source:     source,
		registry:   registry,
		summarizer: summarizer,
		tracker:    trk,
		writer:     writer,
		combiner:   combiner,
		maxRetries: maxRetries,
		minChars:   minChars,
		backoff:    time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run processes all unprocessed items created on the target date
// (YYYY-MM-DD), compiles the digest when anything succeeded, and returns
// the run record. Only failures outside the per-item boundary (the initial
// query, above all) are returned as errors.
func (d *Driver) Run(ctx context.Context, date string) (*model.Run, error) {
	start := time.Now()
	log := zap.L().With(zap.String("date", date))
	log.Info("batch: starting run")

	items, err := d.source.Fetch(ctx, date)
	if err != nil {
		return nil, eris.Wrap(err, "batch: fetch items")
	}

	run := d.createRun(ctx, date)
	run.Total = len(items)

	if len(items) == 0 {
		log.Info("batch: no unprocessed items found")
		fmt.Printf("[%s] No items to process.\n", time.Now().UTC().Format(time.RFC3339))
		d.finishRun(ctx, run)
		return run, nil
	}

	log.Info("batch: processing items", zap.Int("count", len(items)))

	for _, item := range items {
		if d.processOne(ctx, run, item, date) {
			run.Processed++
		}
	}

	elapsed := time.Since(start)
	log.Info("batch: run complete",
		zap.Int("processed", run.Processed),
		zap.Int("total", run.Total),
		zap.Duration("elapsed", elapsed),
	)
	fmt.Printf("processed %d/%d items in %.1fs\n", run.Processed, run.Total, elapsed.Seconds())

	if run.Processed > 0 {
		d.compileAndDeliver(ctx, run, date)
	}

	d.finishRun(ctx, run)
	return run, nil
}

// processOne runs one item through the pipeline inside its fault boundary.
// Returns true when the item was handled (processed or legitimately
// skipped), false when it failed and was queued for retry.
func (d *Driver) processOne(ctx context.Context, run *model.Run, item model.WorkItem, date string) bool {
	log := zap.L().With(zap.String("page_id", item.PageID), zap.String("url", item.URL))

	if item.URL == "" {
		log.Warn("batch: item missing url property")
		d.tracker.SetError(ctx, item, "Missing URL property.")
		d.recordItem(ctx, run, item, "", model.ItemSkipped, "missing url")
		return true
	}

	if item.RetryCount >= d.maxRetries {
		msg := fmt.Sprintf("Max retries (%d) exceeded", d.maxRetries)
		log.Warn("batch: item exceeded retry ceiling, skipping",
			zap.Int("retry_count", item.RetryCount),
		)
		d.tracker.SetError(ctx, item, msg)
		d.recordItem(ctx, run, item, "", model.ItemExhausted, msg)
		return true
	}

	if d.writer.Seen(ctx, item.URL) {
		log.Info("batch: url already processed, skipping")
		d.recordItem(ctx, run, item, "", model.ItemSkipped, "already processed")
		return true
	}

	contentType, _ := classify.Classify(item.URL)
	log.Info("batch: processing item", zap.String("content_type", string(contentType)))

	title, err := d.processItem(ctx, item, contentType, date)
	if err != nil {
		log.Error("batch: item failed", zap.Error(err))
		d.tracker.SetError(ctx, item, truncateErr(err))
		d.tracker.IncrementRetry(ctx, item, item.RetryCount)
		d.recordItem(ctx, run, item, contentType, model.ItemFailed, err.Error())
		d.sleep(ctx)
		return false
	}

	// The source item is intentionally not marked done on success: the
	// on-disk URL scan is the dedup authority, and items stay queryable
	// until that migration settles.
	log.Info("batch: item processed", zap.String("title", title))
	d.recordItem(ctx, run, item, contentType, model.ItemSucceeded, "")
	return true
}

// processItem is the happy path: extract, gate, summarize, persist.
func (d *Driver) processItem(ctx context.Context, item model.WorkItem, contentType model.ContentType, date string) (string, error) {
	doc, err := d.registry.For(item.URL).Extract(ctx, item.URL)
	if err != nil {
		return "", eris.Wrap(err, "extract")
	}

	// Final acceptance gate, distinct from any strategy's internal gate:
	// the terminal fallback may legitimately return short content, which
	// still has to count as a hard failure.
	if len(strings.TrimSpace(doc.Text)) < d.minChars {
		return "", eris.Errorf("extracted content too short (%d chars, need %d)",
			len(strings.TrimSpace(doc.Text)), d.minChars)
	}

	title := item.Title
	if title == "" {
		title = doc.Title
	}
	if title == "" {
		title = doc.ActualURL
	}

	summary, err := d.summarizer.Summarize(ctx, title, doc.ActualURL, doc.Text)
	if err != nil {
		return "", eris.Wrap(err, "summarize")
	}

	_, err = d.writer.Save(model.Summary{
		Title:     title,
		SourceURL: doc.ActualURL,
		Type:      contentType,
		Body:      summary,
		CreatedAt: time.Now().UTC(),
	}, date)
	if err != nil {
		return "", eris.Wrap(err, "persist")
	}

	return title, nil
}

// compileAndDeliver builds the digest and emails it. Both steps are
// best-effort at this point: summaries are already on disk.
func (d *Driver) compileAndDeliver(ctx context.Context, run *model.Run, date string) {
	path, err := d.combiner.Combine(date)
	if err != nil {
		zap.L().Error("batch: digest compilation failed", zap.Error(err))
		return
	}
	if path == "" {
		return
	}
	run.NewsletterPath = path
	fmt.Printf("[%s] Daily newsletter created: %s\n", time.Now().UTC().Format(time.RFC3339), path)

	if d.sender == nil {
		return
	}
	subject := fmt.Sprintf("Daily AI Digest - %s", date)
	if err := d.sender.SendFile(ctx, subject, path); err != nil {
		zap.L().Error("batch: email delivery failed", zap.Error(err))
	}
}

// truncateErr formats an error for the record store's error field.
func truncateErr(err error) string {
	msg := err.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}

// sleep pauses between failures to avoid hammering external services.
func (d *Driver) sleep(ctx context.Context) {
	if d.backoff <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d.backoff):
	}
}

func (d *Driver) createRun(ctx context.Context, date string) *model.Run {
	if d.store == nil {
		return &model.Run{Date: date, StartedAt: time.Now().UTC()}
	}
	run, err := d.store.CreateRun(ctx, date)
	if err != nil {
		zap.L().Warn("batch: run history unavailable", zap.Error(err))
		return &model.Run{Date: date, StartedAt: time.Now().UTC()}
	}
	return run
}

func (d *Driver) finishRun(ctx context.Context, run *model.Run) {
	run.FinishedAt = time.Now().UTC()
	if d.store == nil || run.ID == "" {
		return
	}
	if err := d.store.FinishRun(ctx, run); err != nil {
		zap.L().Warn("batch: record run failed", zap.Error(err))
	}
}

func (d *Driver) recordItem(ctx context.Context, run *model.Run, item model.WorkItem, contentType model.ContentType, status model.ItemStatus, msg string) {
	if d.store == nil || run.ID == "" {
		return
	}
	err := d.store.RecordItem(ctx, model.RunItem{
		RunID:       run.ID,
		PageID:      item.PageID,
		URL:         item.URL,
		ContentType: contentType,
		Status:      status,
		Error:       msg,
	})
	if err != nil {
		zap.L().Warn("batch: record item failed", zap.Error(err))
	}
}
