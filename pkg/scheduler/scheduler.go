// Package scheduler runs the turn-clock: Fischer-increment per-seat clocks,
// at most one pending timeout per table, and the forced-move/abort policy
// on expiry. Grounded on the teacher's Table.HandleTimeouts polling design
// (pkg/poker/table.go) but converted to a push/event model, since spec
// §4.4 requires a single armed timer per table with a race-guarded fire
// path rather than a poll loop.
package scheduler

import (
	"math/rand"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/decred/slog"
	"github.com/sasha-s/go-deadlock"

	"github.com/spadesd/spadesd/pkg/table"
)

// Host is the set of callbacks the scheduler needs from whatever owns
// persistence and the event bus (the registry). Implemented by
// pkg/registry.Registry; kept as an interface here so this package never
// imports pkg/registry (it would be a cycle, since the registry needs the
// scheduler to drive apply_move).
type Host interface {
	PersistTable(tbl *table.Table)
	PublishStateChanged(tableID string, snap table.Snapshot)
	PublishGameAborted(tableID, reason string)
}

type pendingEntry struct {
	tbl   *table.Table
	seat  table.Seat
	timer *clock.Timer
}

// Scheduler owns the pending-timeout map for every timed table.
type Scheduler struct {
	mu      deadlock.Mutex
	pending map[string]*pendingEntry

	clk  clock.Clock
	host Host
	log  slog.Logger
	rng  *rand.Rand
}

// New constructs a Scheduler. clk is injectable so tests can drive a
// *clock.Mock instead of sleeping to exercise timeout races deterministically.
func New(clk clock.Clock, host Host, log slog.Logger) *Scheduler {
	return &Scheduler{
		pending: make(map[string]*pendingEntry),
		clk:     clk,
		host:    host,
		log:     log,
		rng:     rand.New(rand.NewSource(rand.Int63())),
	}
}

func (s *Scheduler) nowMs() int64 {
	return s.clk.Now().UnixMilli()
}

// ApplyMove drives one human (non-timeout) move through the clocked
// transition path: cancel any pending timeout, apply the move with clock
// bookkeeping, persist, publish, and arm the next timeout.
func (s *Scheduler) ApplyMove(tbl *table.Table, move table.Move) (table.Result, error) {
	return s.apply(tbl, move, false)
}

func (s *Scheduler) apply(tbl *table.Table, move table.Move, timeoutInduced bool) (table.Result, error) {
	s.cancelPending(tbl.ID())

	result, err := tbl.ApplyWithClock(move, timeoutInduced, s.nowMs())
	if err != nil {
		return result, err
	}

	s.host.PersistTable(tbl)
	s.host.PublishStateChanged(tbl.ID(), tbl.GetStateSnapshot())
	s.arm(tbl)

	return result, nil
}

// arm arms a fresh timeout for the table's current acting seat, if the
// table is timed and its phase is active. Safe to call redundantly; it is
// a no-op when no timer should be armed.
func (s *Scheduler) arm(tbl *table.Table) {
	if tbl.ClockConfig() == nil {
		return
	}
	if !tbl.Phase().IsActive() {
		return
	}
	seat, ok := tbl.ActingSeat()
	if !ok {
		return
	}
	remaining := tbl.RemainingMs()
	if remaining == nil {
		return
	}
	ms := remaining[seat]

	entry := &pendingEntry{tbl: tbl, seat: seat}
	entry.timer = s.clk.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		s.fire(tbl.ID(), entry)
	})

	s.mu.Lock()
	s.pending[tbl.ID()] = entry
	s.mu.Unlock()
}

// cancelPending cancels and clears any pending timeout for tableID.
func (s *Scheduler) cancelPending(tableID string) {
	s.mu.Lock()
	entry := s.pending[tableID]
	delete(s.pending, tableID)
	s.mu.Unlock()

	if entry != nil {
		entry.timer.Stop()
	}
}

// fire is invoked by the clock when an armed timeout expires. It re-checks
// the race guard (current acting seat must still match the armed seat)
// before forcing a move, per spec §5 "Race with timer firing."
func (s *Scheduler) fire(tableID string, entry *pendingEntry) {
	s.mu.Lock()
	current, stillPending := s.pending[tableID]
	s.mu.Unlock()
	if !stillPending || current != entry {
		return
	}

	tbl := entry.tbl
	if tbl.Phase().IsTerminal() {
		s.cancelPending(tableID)
		return
	}

	seat, ok := tbl.ActingSeat()
	if !ok || seat != entry.seat {
		// A move already raced this timer; it cancelled and re-armed.
		return
	}

	s.cancelPending(tableID)
	tbl.SetRemainingMs(seat, 0)

	phase := tbl.Phase()
	if tbl.RoundIndex() == 0 && phase.Kind == table.Betting {
		tbl.Abort("timeout during first-round betting")
		s.host.PersistTable(tbl)
		s.host.PublishGameAborted(tableID, tbl.AbortReason())
		return
	}

	var forced table.Move
	if phase.Kind == table.Betting {
		forced = table.BetMove{Amount: 1}
	} else {
		legal := tbl.LegalCards(seat)
		if len(legal) == 0 {
			return
		}
		forced = table.CardMove{Card: legal[s.rng.Intn(len(legal))]}
	}

	if _, err := s.apply(tbl, forced, true); err != nil {
		s.log.Errorf("scheduler: forced move on table %s failed: %v", tableID, err)
	}
}

// CancelTable cancels a table's pending timeout, e.g. on removal.
func (s *Scheduler) CancelTable(tableID string) {
	s.cancelPending(tableID)
}

// ArmExisting arms a timeout for a table that is already active without
// driving a transition — used by the registry's boot-time restore (spec
// §4.3) once it has computed the clock-restart debit for a loaded table.
func (s *Scheduler) ArmExisting(tbl *table.Table) {
	s.arm(tbl)
}

// Start drives the table's Start transition and arms the first timeout; it
// does not debit any clock (spec §4.4).
func (s *Scheduler) Start(tbl *table.Table) (table.Result, error) {
	return s.apply(tbl, table.StartMove{}, false)
}
