package timetable

import (
	"context"
	"errors"
	"testing"

	"schedule-api/feature/timetable/feed"
	"schedule-api/feature/timetable/models"
	"schedule-api/feature/timetable/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubFetcher struct {
	tree map[string]any
	raw  []byte
	err  error
}

func (f *stubFetcher) Fetch(ctx context.Context) (map[string]any, []byte, error) {
	return f.tree, f.raw, f.err
}

type stubStore struct {
	latest    *models.Update
	latestErr error
}

func (s *stubStore) LatestUpdate(ctx context.Context) (*models.Update, error) {
	return s.latest, s.latestErr
}

func (s *stubStore) BulkInsert(ctx context.Context, rows any) error { return nil }

func (s *stubStore) IDsByHash(ctx context.Context, model any, hashes []string) (map[string]uint, error) {
	return map[string]uint{}, nil
}

func (s *stubStore) CreateUpdate(ctx context.Context, update *models.Update) error { return nil }

type stubReconciler struct {
	calls  int
	update *models.Update
	err    error
}

func (r *stubReconciler) Reconcile(ctx context.Context, snap *snapshot.Snapshot, diff snapshot.Diff) (*models.Update, error) {
	r.calls++
	if r.update != nil {
		return r.update, r.err
	}
	return &models.Update{Hash: snap.Hash, Data: snap.HashListing()}, r.err
}

type stubNotifier struct {
	calls int
	last  *models.Update
	err   error
}

func (n *stubNotifier) Notify(ctx context.Context, update *models.Update) error {
	n.calls++
	n.last = update
	return n.err
}

func feedTree() map[string]any {
	return map[string]any{
		"tabela_sale": []any{
			map[string]any{"ID": float64(1), "NAZWA": "WI-1c"},
		},
	}
}

func newTestService(f Fetcher, st *stubStore, r Reconciler, n *stubNotifier) *Service {
	return NewService(Config{}, zap.NewNop(), st, f, r, n)
}

func TestCheckUpdates_FetchFailureAborts(t *testing.T) {
	rec := &stubReconciler{}
	not := &stubNotifier{}
	svc := newTestService(
		&stubFetcher{err: feed.ErrMalformedFeed},
		&stubStore{}, rec, not,
	)

	update, err := svc.CheckUpdates(context.Background())
	assert.Nil(t, update)
	assert.ErrorIs(t, err, feed.ErrMalformedFeed)
	assert.Zero(t, rec.calls, "reconcile must not run after a fetch failure")
	assert.Zero(t, not.calls)
}

func TestCheckUpdates_NoopCycleReturnsPreviousUpdate(t *testing.T) {
	// Build the listing the feed content will produce, so the diff is empty.
	doc := feed.Normalize(feedTree())
	snap := snapshot.Build(doc, "prev-hash")

	previous := &models.Update{
		Hash: "prev-hash",
		Data: snap.HashListing(),
	}

	rec := &stubReconciler{}
	not := &stubNotifier{}
	svc := newTestService(
		&stubFetcher{tree: feedTree()},
		&stubStore{latest: previous}, rec, not,
	)

	update, err := svc.CheckUpdates(context.Background())
	require.NoError(t, err)
	assert.Same(t, previous, update, "a no-op cycle returns the previous update unchanged")
	assert.Zero(t, rec.calls, "reconcile must not be invoked on an empty diff")
	assert.Zero(t, not.calls, "no notification without a commit")
}

func TestCheckUpdates_NewDiffReconcilesAndNotifiesOnce(t *testing.T) {
	rec := &stubReconciler{}
	not := &stubNotifier{}
	svc := newTestService(
		&stubFetcher{tree: feedTree(), raw: []byte("<xml/>")},
		&stubStore{}, rec, not,
	)

	update, err := svc.CheckUpdates(context.Background())
	require.NoError(t, err)
	require.NotNil(t, update)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, 1, not.calls)
	assert.Same(t, update, not.last)
}

func TestCheckUpdates_NotifierFailureIsNotFatal(t *testing.T) {
	rec := &stubReconciler{}
	not := &stubNotifier{err: errors.New("fcm down")}
	svc := newTestService(
		&stubFetcher{tree: feedTree()},
		&stubStore{}, rec, not,
	)

	update, err := svc.CheckUpdates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, update)
	assert.Equal(t, 1, not.calls)
}

func TestCheckUpdates_StoreUnavailableAborts(t *testing.T) {
	rec := &stubReconciler{}
	svc := newTestService(
		&stubFetcher{tree: feedTree()},
		&stubStore{latestErr: errors.New("store down")}, rec, &stubNotifier{},
	)

	update, err := svc.CheckUpdates(context.Background())
	assert.Nil(t, update)
	assert.ErrorContains(t, err, "store down")
	assert.Zero(t, rec.calls)
}

func TestCheckUpdates_ReconcilerFailureAborts(t *testing.T) {
	not := &stubNotifier{}
	svc := newTestService(
		&stubFetcher{tree: feedTree()},
		&stubStore{}, &failingReconciler{err: errors.New("commit failed")}, not,
	)

	update, err := svc.CheckUpdates(context.Background())
	assert.Nil(t, update)
	assert.ErrorContains(t, err, "commit failed")
	assert.Zero(t, not.calls, "no notification for an uncommitted update")
}

type failingReconciler struct{ err error }

func (r *failingReconciler) Reconcile(ctx context.Context, snap *snapshot.Snapshot, diff snapshot.Diff) (*models.Update, error) {
	return nil, r.err
}
