package timetable

import (
	"bytes"
	"context"
	"fmt"

	"schedule-api/core/storage"
	"schedule-api/feature/timetable/feed"
	"schedule-api/feature/timetable/models"
	"schedule-api/feature/timetable/notify"
	"schedule-api/feature/timetable/snapshot"
	"schedule-api/feature/timetable/store"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Fetcher retrieves the raw feed. Abstracted for tests.
type Fetcher interface {
	Fetch(ctx context.Context) (map[string]any, []byte, error)
}

// Reconciler persists a snapshot and commits the update. Abstracted for
// tests.
type Reconciler interface {
	Reconcile(ctx context.Context, snap *snapshot.Snapshot, diff snapshot.Diff) (*models.Update, error)
}

// Service conducts one synchronization cycle: fetch, normalize, hash,
// diff, reconcile, archive, notify.
type Service struct {
	cfg        Config
	logger     *zap.Logger
	store      store.Store
	fetcher    Fetcher
	reconciler Reconciler
	notifier   notify.Notifier

	// archive is nil when the feed archive is disabled.
	archive storage.Client
	bucket  string
}

// NewService wires the pipeline.
func NewService(cfg Config, logger *zap.Logger, st store.Store, fetcher Fetcher, reconciler Reconciler, notifier notify.Notifier) *Service {
	return &Service{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		fetcher:    fetcher,
		reconciler: reconciler,
		notifier:   notifier,
	}
}

// WithArchive enables storing raw feed documents to object storage.
func (s *Service) WithArchive(client storage.Client, bucket string) *Service {
	s.archive = client
	s.bucket = bucket
	return s
}

// CheckUpdates runs one synchronization cycle.
//
// A fetch failure aborts the cycle with no writes; the previous update
// remains authoritative. An empty diff is a no-op cycle returning the
// previous update. Otherwise the snapshot is reconciled into the store,
// the raw document optionally archived and the notifier invoked exactly
// once for the committed update.
func (s *Service) CheckUpdates(ctx context.Context) (*models.Update, error) {
	tree, raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("timetable: no data fetched: %w", err)
	}

	last, err := s.store.LatestUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("timetable: load last update: %w", err)
	}

	lastHash := ""
	prevListing := map[string][]string{}
	if last != nil {
		lastHash = last.Hash
		prevListing = last.Data
	}

	doc := feed.Normalize(tree)
	snap := snapshot.Build(doc, lastHash)
	diff := snapshot.Compute(prevListing, snap.HashListing())

	if diff.Empty() {
		s.logger.Info("No new diff found")
		return last, nil
	}
	s.logger.Info("New diff found", zap.String("snapshot", snap.Hash))

	update, err := s.reconciler.Reconcile(ctx, snap, diff)
	if update == nil {
		return nil, fmt.Errorf("timetable: reconcile: %w", err)
	}
	if err != nil {
		// Partial writes are acceptable: entities are idempotent by hash
		// and the next cycle closes any gap.
		s.logger.Warn("Reconciliation finished with collected errors", zap.Error(err))
	}

	s.archiveFeed(ctx, snap.Hash, raw)

	if err := s.notifier.Notify(ctx, update); err != nil {
		s.logger.Error("Update notification failed", zap.Error(err))
	}

	return update, nil
}

// archiveFeed uploads the raw XML document keyed by snapshot hash.
// Best-effort: failures are logged only.
func (s *Service) archiveFeed(ctx context.Context, hash string, raw []byte) {
	if s.archive == nil || len(raw) == 0 {
		return
	}

	object := "feeds/" + hash + ".xml"
	_, err := s.archive.PutObject(ctx, s.bucket, object, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
		ContentType: "application/xml",
	})
	if err != nil {
		s.logger.Error("Feed archive upload failed",
			zap.String("object", object), zap.Error(err))
		return
	}
	s.logger.Debug("Archived raw feed", zap.String("object", object))
}
