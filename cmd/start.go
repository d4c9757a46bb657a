package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schedule-api/core/config"
	"schedule-api/core/database"
	"schedule-api/core/loader"
	"schedule-api/core/logger"
	"schedule-api/core/middleware/auth"
	"schedule-api/core/middleware/rayid"
	"schedule-api/core/storage"

	"schedule-api/feature/timetable"
	"schedule-api/feature/timetable/feed"
	"schedule-api/feature/timetable/notify"
	"schedule-api/feature/timetable/store"
	syncfeature "schedule-api/feature/timetable/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "schedule-api/docs/swagger"
)

// @title Schedule API
// @version 1.0
// @description Read API for the university schedule synchronization service.
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the schedule service",
	Long:  `Starts the HTTP server and the periodic feed synchronization.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Database connection failed", zap.Error(err))
		}
		if err := store.Migrate(db); err != nil {
			logg.Fatal("Schema migration failed", zap.Error(err))
		}
		st := store.New(db)

		// 4. Build the synchronization pipeline
		fetcher := feed.NewFetcher(cfg.Timetable.FeedURL)
		reconciler := syncfeature.NewReconciler(st, logg)

		var notifier notify.Notifier = notify.NewLogNotifier(logg)
		if cfg.Timetable.FCMEnabled {
			fcm, err := notify.NewFCMNotifier(cfg.Timetable.FCMKeyFile, cfg.Timetable.FCMSecret, cfg.Timetable.FCMTopic)
			if err != nil {
				logg.Fatal("Failed to initialize FCM notifier", zap.Error(err))
			}
			notifier = fcm
		}

		service := timetable.NewService(cfg.Timetable, logg, st, fetcher, reconciler, notifier)
		feature := timetable.NewFeature(st, logg)

		// Optional raw feed archive
		if cfg.Storage.Enabled && cfg.Timetable.ArchiveFeeds {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			if err := storage.EnsureBucket(cmd.Context(), client, cfg.Storage); err != nil {
				logg.Fatal("Failed to prepare archive bucket", zap.Error(err))
			}
			service.WithArchive(client, cfg.Storage.Bucket)
			feature.WithArchive(client, cfg.Storage.Bucket)
			logg.Info("Feed archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// Middleware: ray id first so everything is traceable.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		mgr := loader.NewManager()
		mgr.Register(feature)
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start the synchronization scheduler
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		scheduler := syncfeature.NewScheduler(
			time.Duration(cfg.Timetable.IntervalMinutes)*time.Minute,
			func(ctx context.Context) error {
				_, err := service.CheckUpdates(ctx)
				return err
			},
			logg,
		)
		scheduler.Start(ctx)

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down...")
		scheduler.Stop()
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
