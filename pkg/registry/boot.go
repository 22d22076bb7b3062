package registry

import (
	"math/rand"
	"time"

	"github.com/spadesd/spadesd/pkg/table"
)

// Boot loads every persisted table snapshot and, for tables whose phase is
// Betting(_) or Trick(_) and which carry a clock configuration, debits the
// active seat's remaining clock by the wall time elapsed since the
// persisted turn-start epoch (floored at 0) and arms a fresh timeout for
// the new remainder — spec §4.3's boot-time clock-restart logic.
func (r *Registry) Boot() error {
	snapshots, err := r.store.LoadAll()
	if err != nil {
		return err
	}

	nowMs := time.Now().UnixMilli()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ps := range snapshots {
		tbl := table.Restore(ps, rand.New(rand.NewSource(rand.Int63())))

		if (ps.Phase.Kind == table.Betting || ps.Phase.Kind == table.Trick) &&
			ps.ClockConfig != nil && ps.TurnStartedAtMs != nil {

			elapsed := nowMs - *ps.TurnStartedAtMs
			if seat, ok := tbl.ActingSeat(); ok {
				tbl.DebitSeat(seat, elapsed)
			}
			stamp := nowMs
			tbl.SetTurnStartedAtMs(&stamp)
			r.sched.ArmExisting(tbl)
		}

		r.tables[ps.ID] = &tableEntry{tbl: tbl, bus: newBus()}
	}

	return nil
}
