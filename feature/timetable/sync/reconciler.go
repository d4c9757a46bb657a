package sync

import (
	"context"
	"sync"
	"time"

	"schedule-api/feature/timetable/models"
	"schedule-api/feature/timetable/snapshot"
	"schedule-api/feature/timetable/store"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Reconciler persists a hashed snapshot in foreign key dependency order
// and commits the resulting update record. It is only invoked for a
// non-empty diff.
type Reconciler struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewReconciler creates a reconciler on the given store.
func NewReconciler(st store.Store, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: st, logger: logger, now: time.Now}
}

// Reconcile writes the snapshot's entities and the new update.
//
// The five independent collections are persisted concurrently, then
// teachers (which depend on titles), then schedules (which depend on
// teachers and the other four). References are rewritten from content
// hash to store identifier before each dependent phase; unresolved
// references become nil.
//
// Per-entity persistence failures are collected, not fatal: entities are
// idempotent by hash, so a future cycle completes any gap. Only a failed
// update commit aborts, returning a nil update.
func (r *Reconciler) Reconcile(ctx context.Context, snap *snapshot.Snapshot, diff snapshot.Diff) (*models.Update, error) {
	var collected error

	rooms := make([]models.Room, len(snap.Rooms))
	for i, e := range snap.Rooms {
		rooms[i] = models.Room{Hash: e.Hash, Name: e.Name}
	}
	titles := make([]models.Title, len(snap.Titles))
	for i, e := range snap.Titles {
		titles[i] = models.Title{Hash: e.Hash, Name: e.Name}
	}
	degrees := make([]models.Degree, len(snap.Degrees))
	for i, e := range snap.Degrees {
		degrees[i] = models.Degree{Hash: e.Hash, Name: e.Name}
	}
	specialities := make([]models.Speciality, len(snap.Specialities))
	for i, e := range snap.Specialities {
		specialities[i] = models.Speciality{Hash: e.Hash, Name: e.Name}
	}
	subjects := make([]models.Subject, len(snap.Subjects))
	for i, e := range snap.Subjects {
		subjects[i] = models.Subject{Hash: e.Hash, Name: e.Name, ShortName: e.ShortName}
	}

	// Phase 1: no ordering dependency among the five.
	inserts := []any{&rooms, &titles, &degrees, &specialities, &subjects}
	errs := make([]error, len(inserts))
	var wg sync.WaitGroup
	for i, rows := range inserts {
		if sliceLen(rows) == 0 {
			continue
		}
		wg.Add(1)
		go func(i int, rows any) {
			defer wg.Done()
			errs[i] = r.store.BulkInsert(ctx, rows)
		}(i, rows)
	}
	wg.Wait()
	collected = multierr.Combine(errs...)

	listing := snap.HashListing()

	// Phase 2: map content hashes to store identifiers.
	ids := make(map[string]uint)
	independent := []struct {
		model any
		name  string
	}{
		{&models.Room{}, "rooms"},
		{&models.Title{}, "titles"},
		{&models.Degree{}, "degrees"},
		{&models.Speciality{}, "specialities"},
		{&models.Subject{}, "subjects"},
	}
	for _, c := range independent {
		resolved, err := r.store.IDsByHash(ctx, c.model, listing[c.name])
		if err != nil {
			collected = multierr.Append(collected, err)
			continue
		}
		for hash, id := range resolved {
			ids[hash] = id
		}
	}

	// Phase 3: teachers, strictly after titles.
	teachers := make([]models.Teacher, len(snap.Teachers))
	for i, e := range snap.Teachers {
		teachers[i] = models.Teacher{
			Hash: e.Hash, Name: e.Name, Surname: e.Surname, Initials: e.Initials,
			Title: resolveID(ids, e.Title),
		}
	}
	if len(teachers) > 0 {
		if err := r.store.BulkInsert(ctx, &teachers); err != nil {
			collected = multierr.Append(collected, err)
		}
		resolved, err := r.store.IDsByHash(ctx, &models.Teacher{}, listing["teachers"])
		if err != nil {
			collected = multierr.Append(collected, err)
		}
		for hash, id := range resolved {
			ids[hash] = id
		}
	}

	// Phase 4: schedules, strictly after teachers.
	schedules := make([]models.Schedule, len(snap.Schedules))
	for i, e := range snap.Schedules {
		schedules[i] = models.Schedule{
			Hash: e.Hash, Day: e.Day, Hour: e.Hour, Intervals: e.Intervals,
			WeekFlags: e.WeekFlags, Type: e.Type, Group: e.Group, Semester: e.Semester,
			Teacher:    resolveID(ids, e.Teacher),
			Room:       resolveID(ids, e.Room),
			Subject:    resolveID(ids, e.Subject),
			Degree:     resolveID(ids, e.Degree),
			Speciality: resolveID(ids, e.Speciality),
		}
	}
	if len(schedules) > 0 {
		if err := r.store.BulkInsert(ctx, &schedules); err != nil {
			collected = multierr.Append(collected, err)
		}
	}

	update := &models.Update{
		Hash: snap.Hash,
		Date: r.now(),
		Data: listing,
		Diff: toDiffListing(diff),
	}
	if err := r.store.CreateUpdate(ctx, update); err != nil {
		return nil, multierr.Append(collected, err)
	}

	return update, collected
}

// resolveID turns a hash reference into a store identifier, nil when the
// reference is already nil or the hash never got an id.
func resolveID(ids map[string]uint, ref *string) *uint {
	if ref == nil {
		return nil
	}
	id, ok := ids[*ref]
	if !ok {
		return nil
	}
	return &id
}

func toDiffListing(diff snapshot.Diff) models.DiffListing {
	listing := make(models.DiffListing, len(diff))
	for name, entries := range diff {
		converted := make([]models.DiffEntry, len(entries))
		for i, e := range entries {
			converted[i] = models.DiffEntry{Type: e.Type, Hash: e.Hash}
		}
		listing[name] = converted
	}
	return listing
}

func sliceLen(rows any) int {
	switch v := rows.(type) {
	case *[]models.Room:
		return len(*v)
	case *[]models.Title:
		return len(*v)
	case *[]models.Degree:
		return len(*v)
	case *[]models.Speciality:
		return len(*v)
	case *[]models.Subject:
		return len(*v)
	default:
		return 0
	}
}
