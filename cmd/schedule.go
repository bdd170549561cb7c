package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scheduleSpec string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the daily batch on a cron schedule",
	Long:  "Starts a long-running process that executes the run command for yesterday's items on the given cron schedule. Stops on SIGINT or SIGTERM.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c := cron.New()
		_, err := c.AddFunc(scheduleSpec, func() {
			date := defaultDate()
			log := zap.L().With(zap.String("date", date))
			log.Info("schedule: starting batch")

			driver, st, err := buildDriver(ctx)
			if err != nil {
				log.Error("schedule: wiring failed", zap.Error(err))
				return
			}
			if _, err := driver.Run(ctx, date); err != nil {
				log.Error("schedule: batch failed", zap.Error(err))
			}
			if st != nil {
				st.Close()
			}
		})
		if err != nil {
			return eris.Wrapf(err, "schedule: parse cron spec %q", scheduleSpec)
		}

		c.Start()
		zap.L().Info("schedule: started", zap.String("cron", scheduleSpec))

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		zap.L().Info("schedule: stopping")
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "0 6 * * *", "cron schedule for the daily batch")
	rootCmd.AddCommand(scheduleCmd)
}
