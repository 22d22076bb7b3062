package challenge

import (
	"io"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/decred/slog"
	"github.com/stretchr/testify/require"

	"github.com/spadesd/spadesd/pkg/registry"
	"github.com/spadesd/spadesd/pkg/scheduler"
	"github.com/spadesd/spadesd/pkg/store"
	"github.com/spadesd/spadesd/pkg/table"
)

func newTestBroker(t *testing.T) (*Broker, *clock.Mock) {
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

	mock := clock.NewMock()
	return New(reg, mock, log), mock
}

func seatPtr(s table.Seat) *table.Seat { return &s }

func TestChallengeFullFillStartsGame(t *testing.T) {
	b, _ := newTestBroker(t)

	id, creatorID, creatorCh := b.CreateChallenge(500, nil, seatPtr(table.SeatA), "Alice", 60)
	require.NotEmpty(t, creatorID)

	var joinChs []<-chan Event
	for _, seat := range []table.Seat{table.SeatB, table.SeatC} {
		_, ch, err := b.JoinChallenge(id, seat, "")
		require.NoError(t, err)
		joinChs = append(joinChs, ch)
	}

	// Draining seat-update noise before the final, game-starting join.
	drain := func(ch <-chan Event) {
		for {
			select {
			case <-ch:
			default:
				return
			}
		}
	}
	for _, ch := range joinChs {
		drain(ch)
	}
	drain(creatorCh)

	_, lastCh, err := b.JoinChallenge(id, table.SeatD, "Dave")
	require.NoError(t, err)

	status, err := b.GetChallenge(id)
	require.NoError(t, err)
	require.Equal(t, StatusStarted, status)

	evt := <-lastCh
	require.Equal(t, EventGameStart, evt.Kind)
	require.NotEmpty(t, evt.TableID)

	creatorEvt := <-creatorCh
	require.Equal(t, EventGameStart, creatorEvt.Kind)
	require.Equal(t, evt.TableID, creatorEvt.TableID)

	_, _, err = b.JoinChallenge(id, table.SeatA, "")
	require.ErrorIs(t, err, ErrNotOpen)
}

func TestJoinChallengeFailures(t *testing.T) {
	b, _ := newTestBroker(t)

	_, _, err := b.JoinChallenge("nope", table.SeatA, "")
	require.ErrorIs(t, err, ErrNotFound)

	id, _, _ := b.CreateChallenge(500, nil, seatPtr(table.SeatA), "", 60)

	_, _, err = b.JoinChallenge(id, table.SeatA, "")
	require.ErrorIs(t, err, ErrSeatTaken)
}

func TestCancelChallengeRequiresCreator(t *testing.T) {
	b, _ := newTestBroker(t)
	id, creatorID, _ := b.CreateChallenge(500, nil, seatPtr(table.SeatA), "", 60)

	err := b.CancelChallenge(id, "someone-else")
	require.ErrorIs(t, err, ErrNotCreator)

	require.NoError(t, b.CancelChallenge(id, creatorID))

	status, err := b.GetChallenge(id)
	require.NoError(t, err)
	require.Equal(t, StatusCancelled, status)

	err = b.CancelChallenge(id, creatorID)
	require.ErrorIs(t, err, ErrNotOpen)
}

func TestChallengeExpiresAfterTimeout(t *testing.T) {
	b, mock := newTestBroker(t)
	id, _, ch := b.CreateChallenge(500, nil, nil, "", 30)

	mock.Add(30 * time.Second)

	evt := <-ch
	require.Equal(t, EventExpired, evt.Kind)

	status, err := b.GetChallenge(id)
	require.NoError(t, err)
	require.Equal(t, StatusExpired, status)
}

func TestVacateSeatIsIdempotent(t *testing.T) {
	b, _ := newTestBroker(t)
	// Observe through the creator's channel: the vacated seat's own channel
	// is no longer bound to the challenge once its seat is cleared.
	id, _, creatorCh := b.CreateChallenge(500, nil, nil, "", 60)

	playerID, ch, err := b.JoinChallenge(id, table.SeatA, "Bob")
	require.NoError(t, err)
	<-ch        // drain the seat-update from its own join
	<-creatorCh // and the creator's copy of it

	b.VacateSeat(id, table.SeatA, "not-the-occupant")
	select {
	case <-creatorCh:
		t.Fatal("vacate with mismatched player id should be a no-op")
	default:
	}

	b.VacateSeat(id, table.SeatA, playerID)
	evt := <-creatorCh
	require.Equal(t, EventSeatUpdate, evt.Kind)
	require.Empty(t, evt.Seats[table.SeatA].PlayerID)

	// Second vacate of the now-empty seat is a no-op.
	b.VacateSeat(id, table.SeatA, playerID)
	select {
	case <-creatorCh:
		t.Fatal("vacating an already-empty seat should be a no-op")
	default:
	}
}
