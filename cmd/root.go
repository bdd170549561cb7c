package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/selfletter/selfletter/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "selfletter",
	Short: "Daily URL summarization pipeline",
	Long:  "Reads URLs from a Notion database, extracts and summarizes their content via Claude, writes markdown summaries to disk, and compiles a daily digest.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
