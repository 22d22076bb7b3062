package table

import "github.com/spadesd/spadesd/pkg/cards"

// Move is the closed tagged union of transitions a table accepts. Unknown
// variants are compile-time impossible since Move is unexported-method
// sealed to this package's three implementations.
type Move interface {
	isMove()
}

// StartMove begins the game: first deal, arms the first bidder.
type StartMove struct{}

func (StartMove) isMove() {}

// BetMove records the acting seat's bid for the round. Amount 0 is nil.
type BetMove struct {
	Amount int
}

func (BetMove) isMove() {}

// CardMove plays a card from the acting seat's hand.
type CardMove struct {
	Card cards.Card
}

func (CardMove) isMove() {}

// Outcome tags a successful apply() transition.
type Outcome int

const (
	OutcomeStart Outcome = iota
	OutcomeBet
	OutcomeBetComplete
	OutcomePlayCard
	OutcomeTrick
	OutcomeGameOver
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStart:
		return "Start"
	case OutcomeBet:
		return "Bet"
	case OutcomeBetComplete:
		return "BetComplete"
	case OutcomePlayCard:
		return "PlayCard"
	case OutcomeTrick:
		return "Trick"
	case OutcomeGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// Result carries the outcome tag plus any data a caller needs without
// re-reading the whole snapshot: the trick winner seat when a trick just
// resolved, and the winning partnership when the game just ended.
type Result struct {
	Outcome       Outcome
	TrickWinner   Seat
	GameWinner    int // partnership index, meaningful only on OutcomeGameOver
}
