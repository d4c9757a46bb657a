package cmd

import (
	"context"
	"fmt"

	"schedule-api/core/config"
	"schedule-api/core/database"
	"schedule-api/core/logger"
	"schedule-api/feature/timetable"
	"schedule-api/feature/timetable/feed"
	"schedule-api/feature/timetable/notify"
	"schedule-api/feature/timetable/store"
	syncfeature "schedule-api/feature/timetable/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// syncCmd runs a single synchronization cycle and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization cycle",
	Long: `Fetches the feed once, reconciles any changes into the database and
prints the resulting update hash. Useful for cron-style deployments and
for verifying configuration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if err := store.Migrate(db); err != nil {
			return err
		}
		st := store.New(db)

		service := timetable.NewService(
			cfg.Timetable, logg, st,
			feed.NewFetcher(cfg.Timetable.FeedURL),
			syncfeature.NewReconciler(st, logg),
			notify.NewLogNotifier(logg),
		)

		update, err := service.CheckUpdates(context.Background())
		if err != nil {
			return err
		}
		if update == nil {
			logg.Info("Store is empty and the feed produced no entities")
			return nil
		}

		logg.Info("Cycle finished",
			zap.String("hash", update.Hash),
			zap.Time("date", update.Date),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
}
