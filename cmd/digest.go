package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/selfletter/selfletter/internal/newsletter"
)

var digestDate string

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Recompile the digest for a date from summaries already on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := digestDate
		if date == "" {
			date = defaultDate()
		}

		combiner := newsletter.NewCombiner(cfg.Output.Dir)
		path, err := combiner.Combine(date)
		if err != nil {
			return eris.Wrap(err, "digest")
		}

		fmt.Printf("newsletter created: %s\n", path)
		return nil
	},
}

func init() {
	digestCmd.Flags().StringVar(&digestDate, "date", "", "target date (YYYY-MM-DD), defaults to yesterday")
	rootCmd.AddCommand(digestCmd)
}
