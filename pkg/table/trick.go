package table

import (
	"github.com/spadesd/spadesd/pkg/cards"
	"github.com/spadesd/spadesd/pkg/scoring"
)

func (t *Table) applyCard(m CardMove) (Result, error) {
	switch t.phase.Kind {
	case NotStarted:
		return Result{}, ErrNotStarted
	case Completed, Aborted:
		return Result{}, ErrCompletedGame
	case Betting:
		return Result{}, ErrCardInBettingStage
	case Trick:
		// fallthrough to the real logic below
	}

	seat, _ := t.actingSeatLocked()
	hand := t.hands[seat]

	idx := -1
	for i, c := range hand {
		if c == m.Card {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Result{}, ErrCardNotInHand
	}

	if !t.hasLeadingSuit {
		t.leadingSuit = m.Card.Suit
		t.hasLeadingSuit = true
	} else if m.Card.Suit != t.leadingSuit && cards.HasSuit(hand, t.leadingSuit) {
		return Result{}, ErrCardIncorrectSuit
	}

	t.hands[seat] = append(hand[:idx], hand[idx+1:]...)
	t.currentTrick[seat] = m.Card

	if t.phase.Position < 3 {
		t.phase.Position++
		return Result{Outcome: OutcomePlayCard}, nil
	}

	return t.resolveTrick()
}

// LegalCards returns the set of cards seat may currently play: its whole
// hand if this is the trick's first card or it is void in the leading
// suit, else just its leading-suit cards. Used by the scheduler's
// forced-random-legal-card timeout policy (spec §4.4); returns nil outside
// a Trick phase.
func (t *Table) LegalCards(seat Seat) []cards.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.phase.Kind != Trick {
		return nil
	}
	hand := t.hands[seat]
	if !t.hasLeadingSuit || !cards.HasSuit(hand, t.leadingSuit) {
		return append([]cards.Card(nil), hand...)
	}
	var legal []cards.Card
	for _, c := range hand {
		if c.Suit == t.leadingSuit {
			legal = append(legal, c)
		}
	}
	return legal
}

// RoundIndex returns the current round number (0-based).
func (t *Table) RoundIndex() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roundIndex
}

func (t *Table) resolveTrick() (Result, error) {
	winner := Seat(cards.TrickWinner(t.currentTrick, t.leadingSuit))

	t.wonTrickThisRound[winner] = true
	t.trickWinsThisRound[winner]++
	t.completedTricks = append(t.completedTricks, t.currentTrick)

	t.currentTrick = [4]cards.Card{}
	t.hasLeadingSuit = false
	t.leadSeat = winner

	if t.trickIndex < 12 {
		t.trickIndex++
		t.phase = Phase{Kind: Trick, Position: 0}
		return Result{Outcome: OutcomeTrick, TrickWinner: winner}, nil
	}

	gameOver, gameWinner := t.finishRound()
	if gameOver {
		return Result{Outcome: OutcomeGameOver, TrickWinner: winner, GameWinner: gameWinner}, nil
	}
	return Result{Outcome: OutcomeTrick, TrickWinner: winner}, nil
}

// finishRound applies the scoring engine to the round just completed (spec
// §4.2), checks for game-over, and either marks the table Completed or
// deals the next round.
func (t *Table) finishRound() (over bool, winner int) {
	bets := t.betsHistory[t.roundIndex]

	acTricks := t.trickWinsThisRound[SeatA] + t.trickWinsThisRound[SeatC]
	bdTricks := t.trickWinsThisRound[SeatB] + t.trickWinsThisRound[SeatD]

	t.teamAC.ApplyRound(bets[SeatA], bets[SeatC], acTricks,
		t.wonTrickThisRound[SeatA], t.wonTrickThisRound[SeatC])
	t.teamBD.ApplyRound(bets[SeatB], bets[SeatD], bdTricks,
		t.wonTrickThisRound[SeatB], t.wonTrickThisRound[SeatD])

	over, team := scoring.GameOver(t.teamAC, t.teamBD, t.maxPoints)
	if over {
		t.phase = Phase{Kind: Completed}
		t.turnStartedAtMs = nil
		return true, int(team)
	}

	t.resetForNextRound()
	return false, -1
}
