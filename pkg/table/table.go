// Package table implements the per-table Spades state machine: dealing,
// bidding, trick play, round reset, and scoring integration. It is grounded
// on the teacher's pkg/poker/table.go Table type and locking discipline,
// generalized from Texas Hold'em betting rounds to Spades bid/trick rounds.
package table

import (
	"fmt"
	"math/rand"

	"github.com/sasha-s/go-deadlock"

	"github.com/spadesd/spadesd/pkg/cards"
	"github.com/spadesd/spadesd/pkg/scoring"
)

// ClockConfig is the Fischer-increment parameters applied to every seat.
type ClockConfig struct {
	InitialSeconds   int
	IncrementSeconds int
}

// Config configures a new table.
type Config struct {
	ID          string
	Seats       [4]SeatInfo
	MaxPoints   int
	ClockConfig *ClockConfig
	// Rand drives the deck shuffle; nil means a process-random source.
	// Tests pass a seeded source for determinism (mirrors cmd/pokersrv's
	// -seed flag).
	Rand *rand.Rand
}

// Table is a single Spades game: four seats, the live deck/hand state, the
// current phase, and the scoring record. Every read or mutation is made
// under the table's own lock, which each exported method takes for the
// duration of its own call.
type Table struct {
	mu deadlock.Mutex

	id    string
	seats [4]SeatInfo

	hands           [4][]cards.Card
	completedTricks [][4]cards.Card
	currentTrick    [4]cards.Card
	leadSeat        Seat
	hasLeadingSuit  bool
	leadingSuit     cards.Suit

	phase      Phase
	roundIndex int
	trickIndex int // 0..12 within the round

	betsHistory        [][4]int
	wonTrickThisRound  [4]bool
	trickWinsThisRound [4]int

	teamAC, teamBD scoring.TeamState
	maxPoints      int

	clockConfig     *ClockConfig
	remainingMs     *[4]int64
	turnStartedAtMs *int64
	abortReason     string

	rng *rand.Rand
}

// New constructs a table in phase NotStarted. A StartMove must be applied
// before any Bet/Card move is accepted.
func New(cfg Config) *Table {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	t := &Table{
		id:        cfg.ID,
		seats:     cfg.Seats,
		phase:     Phase{Kind: NotStarted},
		maxPoints: cfg.MaxPoints,
		rng:       rng,
	}
	if cfg.ClockConfig != nil {
		cc := *cfg.ClockConfig
		t.clockConfig = &cc
	}
	return t
}

// ID returns the table's stable identifier.
func (t *Table) ID() string {
	return t.id
}

// Lock/Unlock expose the table's exclusive lock. The registry and
// scheduler do not call them; every exported method below takes the same
// lock itself, so a caller holding it must not call those methods.
func (t *Table) Lock()   { t.mu.Lock() }
func (t *Table) Unlock() { t.mu.Unlock() }

// Apply executes one state transition under the table's lock. It does no
// clock bookkeeping; ApplyWithClock performs the same transition together
// with the Fischer-increment credit/debit and turn-start stamping that the
// scheduler drives.
func (t *Table) Apply(move Move) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apply(move)
}

func (t *Table) apply(move Move) (Result, error) {
	switch m := move.(type) {
	case StartMove:
		return t.applyStart()
	case BetMove:
		return t.applyBet(m)
	case CardMove:
		return t.applyCard(m)
	default:
		return Result{}, fmt.Errorf("table: unknown move type %T", move)
	}
}

// ActingSeat returns the seat whose move is currently expected. ok is false
// in NotStarted and terminal phases.
func (t *Table) ActingSeat() (seat Seat, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.actingSeatLocked()
}

func (t *Table) actingSeatLocked() (Seat, bool) {
	switch t.phase.Kind {
	case Betting:
		return Seat(t.phase.Position), true
	case Trick:
		return (t.leadSeat + Seat(t.phase.Position)) % 4, true
	default:
		return 0, false
	}
}

// Phase returns the current phase.
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// SetPlayerName is the administrative setter for a seat's display name.
func (t *Table) SetPlayerName(seat Seat, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seats[seat].Name = name
}

// Abort forces the table into the Aborted terminal phase, e.g. from the
// scheduler's first-round-betting-timeout policy (spec §4.4).
func (t *Table) Abort(reason string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phase = Phase{Kind: Aborted}
	t.abortReason = reason
	t.turnStartedAtMs = nil
}

// AbortReason returns the reason passed to the most recent Abort call.
func (t *Table) AbortReason() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.abortReason
}
