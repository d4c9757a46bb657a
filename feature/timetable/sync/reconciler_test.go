package sync

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"schedule-api/feature/timetable/feed"
	"schedule-api/feature/timetable/models"
	"schedule-api/feature/timetable/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore is an in-memory store double recording insert order.
type memStore struct {
	mu     sync.Mutex
	nextID uint

	ids      map[string]map[string]uint // table -> hash -> id
	rows     map[string][]any           // table -> inserted rows
	order    []string                   // table insert sequence
	failures map[string]error           // table -> forced insert error

	updates []*models.Update
}

func newMemStore() *memStore {
	return &memStore{
		ids:      map[string]map[string]uint{},
		rows:     map[string][]any{},
		failures: map[string]error{},
	}
}

func (s *memStore) LatestUpdate(ctx context.Context) (*models.Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.updates) == 0 {
		return nil, nil
	}
	return s.updates[len(s.updates)-1], nil
}

func (s *memStore) BulkInsert(ctx context.Context, rows any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := tableOf(rows)
	s.order = append(s.order, table)
	if err := s.failures[table]; err != nil {
		return err
	}

	insert := func(hash string, row any) {
		if s.ids[table] == nil {
			s.ids[table] = map[string]uint{}
		}
		if _, exists := s.ids[table][hash]; exists {
			// Duplicate content hash: silent no-op.
			return
		}
		s.nextID++
		s.ids[table][hash] = s.nextID
		s.rows[table] = append(s.rows[table], row)
	}

	switch v := rows.(type) {
	case *[]models.Room:
		for _, r := range *v {
			insert(r.Hash, r)
		}
	case *[]models.Title:
		for _, r := range *v {
			insert(r.Hash, r)
		}
	case *[]models.Degree:
		for _, r := range *v {
			insert(r.Hash, r)
		}
	case *[]models.Speciality:
		for _, r := range *v {
			insert(r.Hash, r)
		}
	case *[]models.Subject:
		for _, r := range *v {
			insert(r.Hash, r)
		}
	case *[]models.Teacher:
		for _, r := range *v {
			insert(r.Hash, r)
		}
	case *[]models.Schedule:
		for _, r := range *v {
			insert(r.Hash, r)
		}
	}
	return nil
}

func (s *memStore) IDsByHash(ctx context.Context, model any, hashes []string) (map[string]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table := tableOf(model)
	out := map[string]uint{}
	for _, h := range hashes {
		if id, ok := s.ids[table][h]; ok {
			out[h] = id
		}
	}
	return out, nil
}

func (s *memStore) CreateUpdate(ctx context.Context, update *models.Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["updates"]; err != nil {
		return err
	}
	s.updates = append(s.updates, update)
	return nil
}

func tableOf(v any) string {
	switch v.(type) {
	case *[]models.Room, *models.Room:
		return "rooms"
	case *[]models.Title, *models.Title:
		return "titles"
	case *[]models.Degree, *models.Degree:
		return "degrees"
	case *[]models.Speciality, *models.Speciality:
		return "specialities"
	case *[]models.Subject, *models.Subject:
		return "subjects"
	case *[]models.Teacher, *models.Teacher:
		return "teachers"
	case *[]models.Schedule, *models.Schedule:
		return "schedules"
	default:
		return "unknown"
	}
}

func newTestReconciler(st *memStore) *Reconciler {
	r := NewReconciler(st, zap.NewNop())
	r.now = func() time.Time { return time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC) }
	return r
}

func TestReconcile_EndToEnd(t *testing.T) {
	// One title, one teacher referencing it, nothing else.
	doc := &feed.Document{
		Titles:   []feed.Title{{ID: 1, Name: "Prof."}},
		Teachers: []feed.Teacher{{ID: 1, Name: "A", Surname: "B", Title: 1}},
	}
	snap := snapshot.Build(doc, "")
	diff := snapshot.Compute(nil, snap.HashListing())

	st := newMemStore()
	update, err := newTestReconciler(st).Reconcile(context.Background(), snap, diff)
	require.NoError(t, err)
	require.NotNil(t, update)

	// Title persisted with its content hash.
	titleHash := snap.Titles[0].Hash
	titleID, ok := st.ids["titles"][titleHash]
	require.True(t, ok)

	// Teacher persisted with the title's store identifier, not the hash
	// and not the feed id.
	require.Len(t, st.rows["teachers"], 1)
	teacher := st.rows["teachers"][0].(models.Teacher)
	require.NotNil(t, teacher.Title)
	assert.Equal(t, titleID, *teacher.Title)

	// Diff: one added title, one added teacher, nothing else.
	assert.Len(t, update.Diff["titles"], 1)
	assert.Equal(t, "+", update.Diff["titles"][0].Type)
	assert.Len(t, update.Diff["teachers"], 1)
	for _, name := range []string{"rooms", "degrees", "subjects", "specialities", "schedules"} {
		assert.Empty(t, update.Diff[name], name)
	}

	// Update captures the snapshot listing and hash.
	assert.Equal(t, snap.Hash, update.Hash)
	assert.Equal(t, models.HashListing(snap.HashListing()), update.Data)
	assert.Equal(t, time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC), update.Date)
}

func TestReconcile_DependencyOrder(t *testing.T) {
	doc := &feed.Document{
		Rooms:        []feed.Room{{ID: 1, Name: "r"}},
		Titles:       []feed.Title{{ID: 1, Name: "t"}},
		Degrees:      []feed.Degree{{ID: 1, Name: "d"}},
		Specialities: []feed.Speciality{{ID: 1, Name: "s"}},
		Subjects:     []feed.Subject{{ID: 1, Name: "sub", ShortName: "s"}},
		Teachers:     []feed.Teacher{{ID: 1, Name: "A", Surname: "B", Title: 1}},
		Schedules: []feed.Schedule{{
			Day: 1, Hour: 1, Intervals: 1, WeekFlags: 1,
			Teacher: 1, Room: 1, Subject: 1, Degree: 1, Speciality: 1,
		}},
	}
	snap := snapshot.Build(doc, "")
	diff := snapshot.Compute(nil, snap.HashListing())

	st := newMemStore()
	update, err := newTestReconciler(st).Reconcile(context.Background(), snap, diff)
	require.NoError(t, err)
	require.NotNil(t, update)

	teacherAt := slices.Index(st.order, "teachers")
	scheduleAt := slices.Index(st.order, "schedules")
	require.NotEqual(t, -1, teacherAt)
	require.NotEqual(t, -1, scheduleAt)

	for _, independent := range []string{"rooms", "titles", "degrees", "specialities", "subjects"} {
		at := slices.Index(st.order, independent)
		require.NotEqual(t, -1, at, independent)
		assert.Less(t, at, teacherAt, "%s must be persisted before teachers", independent)
	}
	assert.Less(t, teacherAt, scheduleAt, "teachers must be persisted before schedules")

	// Every schedule reference resolved to a store identifier.
	require.Len(t, st.rows["schedules"], 1)
	sched := st.rows["schedules"][0].(models.Schedule)
	require.NotNil(t, sched.Teacher)
	require.NotNil(t, sched.Room)
	require.NotNil(t, sched.Subject)
	require.NotNil(t, sched.Degree)
	require.NotNil(t, sched.Speciality)
	assert.Equal(t, st.ids["teachers"][snap.Teachers[0].Hash], *sched.Teacher)
	assert.Equal(t, st.ids["rooms"][snap.Rooms[0].Hash], *sched.Room)
}

func TestReconcile_UnresolvedReferenceIsNil(t *testing.T) {
	doc := &feed.Document{
		Teachers: []feed.Teacher{{ID: 1, Name: "A", Surname: "B", Title: 42}},
	}
	snap := snapshot.Build(doc, "")
	diff := snapshot.Compute(nil, snap.HashListing())

	st := newMemStore()
	_, err := newTestReconciler(st).Reconcile(context.Background(), snap, diff)
	require.NoError(t, err)

	require.Len(t, st.rows["teachers"], 1)
	teacher := st.rows["teachers"][0].(models.Teacher)
	assert.Nil(t, teacher.Title)
}

func TestReconcile_CollectsNonFatalErrors(t *testing.T) {
	doc := &feed.Document{
		Rooms:  []feed.Room{{ID: 1, Name: "r"}},
		Titles: []feed.Title{{ID: 1, Name: "t"}},
	}
	snap := snapshot.Build(doc, "")
	diff := snapshot.Compute(nil, snap.HashListing())

	st := newMemStore()
	st.failures["rooms"] = errors.New("connection reset")

	update, err := newTestReconciler(st).Reconcile(context.Background(), snap, diff)

	// The failed collection is reported but the cycle still commits.
	require.NotNil(t, update)
	assert.ErrorContains(t, err, "connection reset")
	assert.Len(t, st.updates, 1)
	assert.NotEmpty(t, st.ids["titles"])
}

func TestReconcile_UpdateCommitFailureIsFatal(t *testing.T) {
	doc := &feed.Document{Rooms: []feed.Room{{ID: 1, Name: "r"}}}
	snap := snapshot.Build(doc, "")
	diff := snapshot.Compute(nil, snap.HashListing())

	st := newMemStore()
	st.failures["updates"] = errors.New("updates table gone")

	update, err := newTestReconciler(st).Reconcile(context.Background(), snap, diff)
	assert.Nil(t, update)
	assert.ErrorContains(t, err, "updates table gone")
}
