package table

import "errors"

// Failure values returned by apply(). Callers compare with errors.Is; the
// transport layer maps each one to a status code per the error taxonomy.
var (
	ErrAlreadyStarted     = errors.New("table: already started")
	ErrNotStarted         = errors.New("table: game has not started")
	ErrCompletedGame      = errors.New("table: game already completed")
	ErrCardInBettingStage = errors.New("table: card move during betting stage")
	ErrBetInTrickStage    = errors.New("table: bet move during trick stage")
	ErrCardNotInHand      = errors.New("table: card not in hand")
	ErrCardIncorrectSuit  = errors.New("table: must follow leading suit")
)
