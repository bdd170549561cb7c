package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/batch"
	"github.com/selfletter/selfletter/internal/extract"
	"github.com/selfletter/selfletter/internal/newsletter"
	"github.com/selfletter/selfletter/internal/store"
	"github.com/selfletter/selfletter/internal/summarize"
	"github.com/selfletter/selfletter/internal/tracker"
	anthropicpkg "github.com/selfletter/selfletter/pkg/anthropic"
	"github.com/selfletter/selfletter/pkg/jina"
	"github.com/selfletter/selfletter/pkg/notion"
)

var runDate string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process one day's URLs and compile the digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		date := runDate
		if date == "" {
			date = defaultDate()
		}

		driver, st, err := buildDriver(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close()
		}

		run, err := driver.Run(ctx, date)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		zap.L().Info("run finished",
			zap.String("run_id", run.ID),
			zap.Int("processed", run.Processed),
			zap.Int("total", run.Total))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runDate, "date", "", "target date (YYYY-MM-DD), defaults to yesterday")
	rootCmd.AddCommand(runCmd)
}

// defaultDate returns yesterday in UTC. Items are collected the day they
// are saved and processed the morning after.
func defaultDate() string {
	return time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
}

// buildDriver wires the full pipeline from configuration. The returned
// store is nil when run history is disabled.
func buildDriver(ctx context.Context) (*batch.Driver, store.Store, error) {
	notionClient := notion.NewClient(cfg.Notion.Token)
	jinaClient := jina.NewClient(cfg.Jina.Key,
		jina.WithBaseURL(cfg.Jina.BaseURL),
		jina.WithUserAgent(cfg.Jina.UserAgent))
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	local := extract.NewLocalFetcher(cfg.Jina.UserAgent)
	registry := extract.NewRegistry(jinaClient, local)
	summarizer := summarize.New(anthropicClient, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.Batch.MaxChars)
	trk := tracker.New(notionClient, cfg.Notion.ErrorProp, cfg.Notion.RetryProp, cfg.Notion.DoneProp)
	writer := newsletter.NewWriter(cfg.Output.Dir)
	combiner := newsletter.NewCombiner(cfg.Output.Dir)
	source := batch.NewNotionSource(notionClient, cfg.Notion)
	sender := batch.NewSender(cfg.SMTP)

	opts := []batch.Option{batch.WithSender(sender)}

	var st store.Store
	if cfg.Store.Path != "" {
		sq, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, nil, eris.Wrap(err, "open store")
		}
		if err := sq.Migrate(ctx); err != nil {
			sq.Close()
			return nil, nil, eris.Wrap(err, "migrate store")
		}
		st = sq
		opts = append(opts, batch.WithStore(st))
	}

	driver := batch.NewDriver(source, registry, summarizer, trk, writer, combiner,
		cfg.Batch.MaxRetries, cfg.Batch.MinChars, opts...)
	return driver, st, nil
}
