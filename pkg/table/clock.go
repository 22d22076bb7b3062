package table

// ClockConfig returns the table's clock configuration, or nil if untimed.
func (t *Table) ClockConfig() *ClockConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.clockConfig == nil {
		return nil
	}
	cc := *t.clockConfig
	return &cc
}

// RemainingMs returns a snapshot of the per-seat remaining clock, or nil if
// untimed or not yet initialized (before Start).
func (t *Table) RemainingMs() *[4]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remainingMs == nil {
		return nil
	}
	snap := *t.remainingMs
	return &snap
}

// TurnStartedAtMs returns the epoch-ms timestamp the current turn began, or
// nil if no timer is running (NotStarted, terminal phase, or untimed table).
func (t *Table) TurnStartedAtMs() *int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.turnStartedAtMs == nil {
		return nil
	}
	v := *t.turnStartedAtMs
	return &v
}

// SetTurnStartedAtMs overwrites the turn-start epoch (nil clears it). The
// registry's boot-time restore uses it to re-stamp a loaded table's turn
// start; ApplyWithClock stamps and clears it on ordinary moves.
func (t *Table) SetTurnStartedAtMs(ms *int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if ms == nil {
		t.turnStartedAtMs = nil
		return
	}
	v := *ms
	t.turnStartedAtMs = &v
}

// CreditSeat adds incrementSeconds (converted to ms) to a seat's remaining
// clock. No-op on an untimed table.
func (t *Table) CreditSeat(seat Seat, incrementSeconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remainingMs == nil {
		return
	}
	t.remainingMs[seat] += int64(incrementSeconds) * 1000
}

// DebitSeat subtracts elapsedMs from a seat's remaining clock, saturating at
// zero (spec §4.4 step 3). No-op on an untimed table.
func (t *Table) DebitSeat(seat Seat, elapsedMs int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remainingMs == nil {
		return
	}
	v := t.remainingMs[seat] - elapsedMs
	if v < 0 {
		v = 0
	}
	t.remainingMs[seat] = v
}

// ApplyWithClock is Apply plus the Fischer-increment clock bookkeeping from
// spec §4.4 steps 1-3, performed under a single lock acquisition so the
// credit/debit and the transition itself are atomic: unless
// timeoutInduced, the acting seat is credited IncrementSeconds; then it is
// debited by the elapsed time since turn_started_at (saturating at zero);
// then the move is applied. On an active resulting phase, turn_started_at
// is stamped to nowMs (step 5); on a terminal phase it is cleared. Arming
// the actual timer for the next seat is the caller's (scheduler's)
// responsibility once this returns, outside this lock.
func (t *Table) ApplyWithClock(move Move, timeoutInduced bool, nowMs int64) (Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.clockConfig != nil && t.turnStartedAtMs != nil {
		if seat, ok := t.actingSeatLocked(); ok {
			if !timeoutInduced {
				t.remainingMs[seat] += int64(t.clockConfig.IncrementSeconds) * 1000
			}
			elapsed := nowMs - *t.turnStartedAtMs
			v := t.remainingMs[seat] - elapsed
			if v < 0 {
				v = 0
			}
			t.remainingMs[seat] = v
		}
	}

	result, err := t.apply(move)
	if err != nil {
		return result, err
	}

	if t.clockConfig != nil {
		if t.phase.IsActive() {
			stamp := nowMs
			t.turnStartedAtMs = &stamp
		} else {
			t.turnStartedAtMs = nil
		}
	}

	return result, nil
}

// SetRemainingMs force-sets a seat's remaining clock (negative values are
// floored at 0), used by the scheduler to zero the clock of a seat whose
// timeout has fired (spec §4.4).
func (t *Table) SetRemainingMs(seat Seat, ms int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.remainingMs == nil {
		return
	}
	if ms < 0 {
		ms = 0
	}
	t.remainingMs[seat] = ms
}
