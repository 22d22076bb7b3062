package table

import "github.com/spadesd/spadesd/pkg/cards"

// Snapshot is the state-response shape described in spec §6: everything a
// client needs to render the table, with no internal bookkeeping (deck
// remainder, trick-position counters) leaking through.
type Snapshot struct {
	TableID string

	Phase Phase

	Seats [4]SeatInfo

	ScoreAC, ScoreBD int
	BagsAC, BagsBD   int

	ActingSeat   Seat
	HasActingSeat bool

	ClockConfig *ClockConfig
	RemainingMs *[4]int64

	// CompletedBidsThisRound is set in every Betting and Trick phase (bids
	// not yet placed this round read 0) and is nil otherwise.
	// CompletedTricksThisRound is nil until the first trick of the round
	// completes.
	CompletedBidsThisRound   *[4]int
	CompletedTricksThisRound [][4]cards.Card
}

// GetStateSnapshot reads a consistent, point-in-time view of the table
// under its lock, grounded on the teacher's
// Table.GetStateSnapshot/buildGameStateForPlayer pair: the whole wire shape
// is built in one pass under the lock.
func (t *Table) GetStateSnapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		TableID: t.id,
		Phase:   t.phase,
		Seats:   t.seats,
		ScoreAC: t.teamAC.CumulativePoints,
		ScoreBD: t.teamBD.CumulativePoints,
		BagsAC:  t.teamAC.Bags,
		BagsBD:  t.teamBD.Bags,
	}

	if seat, ok := t.actingSeatLocked(); ok {
		snap.ActingSeat = seat
		snap.HasActingSeat = true
	}

	if t.clockConfig != nil {
		cc := *t.clockConfig
		snap.ClockConfig = &cc
	}
	if t.remainingMs != nil {
		rem := *t.remainingMs
		snap.RemainingMs = &rem
	}

	if t.phase.Kind == Betting || t.phase.Kind == Trick {
		bids := t.betsHistory[t.roundIndex]
		snap.CompletedBidsThisRound = &bids
	}
	if len(t.completedTricks) > 0 {
		snap.CompletedTricksThisRound = append([][4]cards.Card(nil), t.completedTricks...)
	}

	return snap
}

// GetHand returns a copy of a seat's current hand, NotFound/InvalidPlayer
// resolution (mapping a player id to a seat) is the registry's job — this
// method works purely in terms of seats.
func (t *Table) GetHand(seat Seat) []cards.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]cards.Card(nil), t.hands[seat]...)
}

// SeatForPlayer returns the seat holding playerID, or ok=false if no seat
// matches (InvalidPlayer in the external API's terms).
func (t *Table) SeatForPlayer(playerID string) (Seat, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, s := range t.seats {
		if s.PlayerID == playerID {
			return Seat(i), true
		}
	}
	return 0, false
}

// AllCardsAccountedFor is an invariant check (spec §8 property 1): the
// multiset of cards across hands, the current trick, and completed tricks
// of this round must equal the 52-card deck with no duplicates. Exposed for
// tests, not used by production code paths.
func (t *Table) AllCardsAccountedFor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen := make(map[cards.Card]int, 52)
	count := func(c cards.Card) { seen[c]++ }

	for _, hand := range t.hands {
		for _, c := range hand {
			count(c)
		}
	}
	for _, trick := range t.completedTricks {
		for _, c := range trick {
			count(c)
		}
	}
	// Count only the cards actually played into the current trick so far;
	// seats that have not yet acted this trick hold a zero-value Card, which
	// reads as the Two of Clubs and must not be counted.
	if t.phase.Kind == Trick {
		for i := 0; i <= t.phase.Position-1 && i < 4; i++ {
			seat := (t.leadSeat + Seat(i)) % 4
			count(t.currentTrick[seat])
		}
	}

	if len(seen) != 52 {
		return false
	}
	for _, n := range seen {
		if n != 1 {
			return false
		}
	}
	return true
}
