package table

import "github.com/spadesd/spadesd/pkg/cards"

// deal shuffles a fresh 52-card deck and deals 13 cards to each seat in
// round-robin order, sorting each hand by (suit, rank) ascending, per
// spec §4.1 "Dealing".
func (t *Table) deal() {
	deck := cards.NewOrderedDeck()
	deck.Shuffle(t.rng)

	for i := range t.hands {
		t.hands[i] = nil
	}
	for round := 0; round < 13; round++ {
		for seat := Seat(0); seat < 4; seat++ {
			t.hands[seat] = append(t.hands[seat], deck.Draw(1)[0])
		}
	}
	for seat := range t.hands {
		cards.SortHand(t.hands[seat])
	}
}

func (t *Table) applyStart() (Result, error) {
	if t.phase.Kind != NotStarted {
		return Result{}, ErrAlreadyStarted
	}

	t.deal()
	t.roundIndex = 0
	t.trickIndex = 0
	t.completedTricks = nil
	t.currentTrick = [4]cards.Card{}
	t.hasLeadingSuit = false
	t.wonTrickThisRound = [4]bool{}
	t.trickWinsThisRound = [4]int{}
	t.betsHistory = [][4]int{{}}
	t.leadSeat = SeatA
	t.phase = Phase{Kind: Betting, Position: 0}

	if t.clockConfig != nil {
		var rem [4]int64
		initMs := int64(t.clockConfig.InitialSeconds) * 1000
		for i := range rem {
			rem[i] = initMs
		}
		t.remainingMs = &rem
	}

	return Result{Outcome: OutcomeStart}, nil
}

// resetForNextRound deals fresh hands and returns the table to Betting(0)
// for the next round, per spec §4.1 "Round reset".
func (t *Table) resetForNextRound() {
	t.deal()
	t.trickIndex = 0
	t.completedTricks = nil
	t.currentTrick = [4]cards.Card{}
	t.hasLeadingSuit = false
	t.wonTrickThisRound = [4]bool{}
	t.trickWinsThisRound = [4]int{}
	t.roundIndex++
	t.betsHistory = append(t.betsHistory, [4]int{})
	t.leadSeat = SeatA
	t.phase = Phase{Kind: Betting, Position: 0}
}
