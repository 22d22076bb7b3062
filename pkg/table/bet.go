package table

func (t *Table) applyBet(m BetMove) (Result, error) {
	switch t.phase.Kind {
	case NotStarted:
		return Result{}, ErrNotStarted
	case Completed, Aborted:
		return Result{}, ErrCompletedGame
	case Trick:
		return Result{}, ErrBetInTrickStage
	case Betting:
		// fallthrough to the real logic below
	}

	seat := Seat(t.phase.Position)
	t.betsHistory[t.roundIndex][seat] = m.Amount

	if t.phase.Position == 3 {
		t.phase = Phase{Kind: Trick, Position: 0}
		return Result{Outcome: OutcomeBetComplete}, nil
	}

	t.phase.Position++
	return Result{Outcome: OutcomeBet}, nil
}
