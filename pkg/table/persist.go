package table

import (
	"math/rand"

	"github.com/spadesd/spadesd/pkg/cards"
)

// PersistedState is the opaque structured encoding spec §4.3/§6 calls for:
// every field needed to resume a table exactly where it left off, including
// the deck state implicit in each seat's hand, all bets, scoring, clocks,
// and the turn-start timestamp. pkg/store serializes this with
// encoding/json into a single BLOB column; the shape here, not the bytes on
// disk, is the contract.
type PersistedState struct {
	ID    string
	Seats [4]SeatInfo

	Hands           [4][]cards.Card
	CompletedTricks [][4]cards.Card
	CurrentTrick    [4]cards.Card
	LeadSeat        Seat
	HasLeadingSuit  bool
	LeadingSuit     cards.Suit

	Phase      Phase
	RoundIndex int
	TrickIndex int

	BetsHistory        [][4]int
	WonTrickThisRound  [4]bool
	TrickWinsThisRound [4]int

	TeamACPoints, TeamACBags int
	TeamBDPoints, TeamBDBags int
	MaxPoints                int

	ClockConfig     *ClockConfig
	RemainingMs     *[4]int64
	TurnStartedAtMs *int64
	AbortReason     string
}

// Export captures a durable snapshot of the table under its lock.
func (t *Table) Export() PersistedState {
	t.mu.Lock()
	defer t.mu.Unlock()

	ps := PersistedState{
		ID:                 t.id,
		Seats:              t.seats,
		Hands:              make([4][]cards.Card, 4),
		CompletedTricks:    append([][4]cards.Card(nil), t.completedTricks...),
		CurrentTrick:       t.currentTrick,
		LeadSeat:           t.leadSeat,
		HasLeadingSuit:     t.hasLeadingSuit,
		LeadingSuit:        t.leadingSuit,
		Phase:              t.phase,
		RoundIndex:         t.roundIndex,
		TrickIndex:         t.trickIndex,
		BetsHistory:        append([][4]int(nil), t.betsHistory...),
		WonTrickThisRound:  t.wonTrickThisRound,
		TrickWinsThisRound: t.trickWinsThisRound,
		TeamACPoints:       t.teamAC.CumulativePoints,
		TeamACBags:         t.teamAC.Bags,
		TeamBDPoints:       t.teamBD.CumulativePoints,
		TeamBDBags:         t.teamBD.Bags,
		MaxPoints:          t.maxPoints,
		AbortReason:        t.abortReason,
	}
	for i := range t.hands {
		ps.Hands[i] = append([]cards.Card(nil), t.hands[i]...)
	}
	if t.clockConfig != nil {
		cc := *t.clockConfig
		ps.ClockConfig = &cc
	}
	if t.remainingMs != nil {
		rem := *t.remainingMs
		ps.RemainingMs = &rem
	}
	if t.turnStartedAtMs != nil {
		v := *t.turnStartedAtMs
		ps.TurnStartedAtMs = &v
	}
	return ps
}

// Restore rebuilds a Table from a persisted snapshot. rng seeds future
// round-reset shuffles (the restored hands themselves are taken verbatim
// from the snapshot, never reshuffled).
func Restore(ps PersistedState, rng *rand.Rand) *Table {
	t := &Table{
		id:                 ps.ID,
		seats:              ps.Seats,
		completedTricks:    ps.CompletedTricks,
		currentTrick:       ps.CurrentTrick,
		leadSeat:           ps.LeadSeat,
		hasLeadingSuit:     ps.HasLeadingSuit,
		leadingSuit:        ps.LeadingSuit,
		phase:              ps.Phase,
		roundIndex:         ps.RoundIndex,
		trickIndex:         ps.TrickIndex,
		betsHistory:        ps.BetsHistory,
		wonTrickThisRound:  ps.WonTrickThisRound,
		trickWinsThisRound: ps.TrickWinsThisRound,
		maxPoints:          ps.MaxPoints,
		abortReason:        ps.AbortReason,
	}
	t.hands = ps.Hands
	t.teamAC.CumulativePoints = ps.TeamACPoints
	t.teamAC.Bags = ps.TeamACBags
	t.teamBD.CumulativePoints = ps.TeamBDPoints
	t.teamBD.Bags = ps.TeamBDBags
	if ps.ClockConfig != nil {
		cc := *ps.ClockConfig
		t.clockConfig = &cc
	}
	if ps.RemainingMs != nil {
		rem := *ps.RemainingMs
		t.remainingMs = &rem
	}
	if ps.TurnStartedAtMs != nil {
		v := *ps.TurnStartedAtMs
		t.turnStartedAtMs = &v
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	t.rng = rng
	return t
}
