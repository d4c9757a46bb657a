// Package database handles database connections for the schedule store.
//
// It provides a wrapper around GORM to configure MySQL (production) or
// SQLite (local/one-shot sync) connections based on the application's
// configuration. Schema migration is driven by the timetable models via
// AutoMigrate at startup; the synchronization engine only ever inserts,
// so no destructive migrations exist.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
