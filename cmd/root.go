package cmd

import (
	"fmt"
	"os"

	"schedule-api/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "schedule-api",
	Short: "University schedule synchronization service",
	Long: `schedule-api periodically fetches a university's class-schedule feed,
detects what changed and persists immutable, content-addressed update
records. It also serves the synchronized timetable over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the structured logger; console format with debug
		// level gives readable timestamps for a CLI failure.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
