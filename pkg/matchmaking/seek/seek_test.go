package seek

import (
	"io"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/decred/slog"
	"github.com/stretchr/testify/require"

	"github.com/spadesd/spadesd/pkg/registry"
	"github.com/spadesd/spadesd/pkg/scheduler"
	"github.com/spadesd/spadesd/pkg/store"
	"github.com/spadesd/spadesd/pkg/table"
)

func newTestBroker(t *testing.T) *Broker {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	backend := slog.NewBackend(io.Discard)
	log := backend.Logger("TEST")
	log.SetLevel(slog.LevelOff)

	reg := registry.New(st, nil, log)
	sched := scheduler.New(clock.NewMock(), reg, log)
	reg.SetScheduler(sched)

	return New(reg, log)
}

func TestFourMatchingSeeksStartAGame(t *testing.T) {
	b := newTestBroker(t)
	cc := &table.ClockConfig{InitialSeconds: 5, IncrementSeconds: 3}

	var channels []<-chan Event
	for i := 0; i < 4; i++ {
		_, ch := b.AddSeek(500, cc, "")
		channels = append(channels, ch)
	}

	var tableIDs []string
	for _, ch := range channels {
		evt := <-ch
		require.Equal(t, EventGameStart, evt.Kind)
		tableIDs = append(tableIDs, evt.TableID)
	}
	require.Equal(t, tableIDs[0], tableIDs[1])
	require.Equal(t, tableIDs[0], tableIDs[2])
	require.Equal(t, tableIDs[0], tableIDs[3])

	seeks := b.ListSeeks()
	require.Empty(t, seeks)
}

func TestDifferentIncrementDoesNotMatch(t *testing.T) {
	b := newTestBroker(t)
	cc1 := &table.ClockConfig{InitialSeconds: 5, IncrementSeconds: 3}
	cc2 := &table.ClockConfig{InitialSeconds: 5, IncrementSeconds: 2}

	for i := 0; i < 3; i++ {
		b.AddSeek(500, cc1, "")
	}
	_, ch := b.AddSeek(500, cc2, "")

	seeks := b.ListSeeks()
	require.Len(t, seeks, 2)

	select {
	case <-ch:
		t.Fatal("fourth seeker with a different key should not be matched")
	default:
	}
}

func TestCancelSeekIsIdempotent(t *testing.T) {
	b := newTestBroker(t)
	b.CancelSeek("unknown-player")

	id, _ := b.AddSeek(500, nil, "")
	b.CancelSeek(id)
	b.CancelSeek(id)

	require.Empty(t, b.ListSeeks())
}
