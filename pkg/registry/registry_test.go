package registry

import (
	"io"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/decred/slog"
	"github.com/stretchr/testify/require"

	"github.com/spadesd/spadesd/pkg/scheduler"
	"github.com/spadesd/spadesd/pkg/store"
	"github.com/spadesd/spadesd/pkg/table"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	backend := slog.NewBackend(io.Discard)
	log := backend.Logger("TEST")
	log.SetLevel(slog.LevelOff)

	r := New(st, nil, log)
	sched := scheduler.New(clock.NewMock(), r, log)
	r.SetScheduler(sched)
	return r
}

func TestCreateTableThenStartAndApplyMove(t *testing.T) {
	r := newTestRegistry(t)

	id, err := r.CreateTable([4]string{"p1", "p2", "p3", "p4"}, 500, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = r.ApplyMove(id, table.StartMove{})
	require.NoError(t, err)

	snap, err := r.GetSnapshot(id)
	require.NoError(t, err)
	require.Equal(t, table.Betting, snap.Phase.Kind)
}

func TestGetSnapshotUnknownTable(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.GetSnapshot("nope")
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestGetHandInvalidPlayer(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.CreateTable([4]string{"p1", "p2", "p3", "p4"}, 500, nil)
	r.ApplyMove(id, table.StartMove{})

	_, err := r.GetHand(id, "not-a-player")
	require.ErrorIs(t, err, ErrInvalidPlayer)

	hand, err := r.GetHand(id, "p1")
	require.NoError(t, err)
	require.Len(t, hand, 13)
}

func TestSubscribeReceivesStateChanged(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.CreateTable([4]string{"p1", "p2", "p3", "p4"}, 500, nil)

	ch, unsubscribe, err := r.Subscribe(id)
	require.NoError(t, err)
	defer unsubscribe()

	_, err = r.ApplyMove(id, table.StartMove{})
	require.NoError(t, err)

	evt := <-ch
	require.Equal(t, EventStateChanged, evt.Kind)
	require.Equal(t, id, evt.TableID)
}

func TestRemoveTableThenNotFound(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.CreateTable([4]string{"p1", "p2", "p3", "p4"}, 500, nil)

	require.NoError(t, r.RemoveTable(id))
	_, err := r.GetSnapshot(id)
	require.ErrorIs(t, err, ErrTableNotFound)

	err = r.RemoveTable("nope")
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestSetNamePublishesStateChanged(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.CreateTable([4]string{"p1", "p2", "p3", "p4"}, 500, nil)

	ch, unsubscribe, err := r.Subscribe(id)
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, r.SetName(id, "p1", "Alice"))
	evt := <-ch
	require.Equal(t, "Alice", evt.Snapshot.Seats[0].Name)
}

func TestBootRestoresPersistedTables(t *testing.T) {
	r := newTestRegistry(t)
	id, _ := r.CreateTable([4]string{"p1", "p2", "p3", "p4"}, 500, nil)
	r.ApplyMove(id, table.StartMove{})

	// Simulate a fresh process: new registry over the same store.
	r2 := New(r.store, nil, r.log)
	backend := slog.NewBackend(io.Discard)
	log := backend.Logger("TEST")
	r2.SetScheduler(scheduler.New(clock.NewMock(), r2, log))

	require.NoError(t, r2.Boot())
	snap, err := r2.GetSnapshot(id)
	require.NoError(t, err)
	require.Equal(t, table.Betting, snap.Phase.Kind)
}
