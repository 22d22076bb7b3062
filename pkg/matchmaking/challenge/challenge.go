package challenge

import (
	"github.com/benbjohnson/clock"
	"github.com/decred/slog"
	"github.com/sasha-s/go-deadlock"

	"github.com/spadesd/spadesd/pkg/statemachine"
	"github.com/spadesd/spadesd/pkg/table"
)

type seatSlot struct {
	playerID string
	name     string
	events   chan Event
}

// Challenge is a seat-based invitation: up to four specific players claim
// specific seats before a table is created. spec.md §3.
type Challenge struct {
	mu deadlock.Mutex

	id              string
	creatorPlayerID string
	maxPoints       int
	clockConfig     *table.ClockConfig
	expirySeconds   int

	seats   [4]seatSlot
	tableID string

	cancelled    bool
	cancelReason string
	expired      bool

	creatorEvents chan Event
	timer         *clock.Timer

	sm  *statemachine.StateMachine[Challenge]
	log slog.Logger
}

// Status reports the challenge's current lifecycle status.
func (c *Challenge) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Challenge) statusLocked() Status {
	switch {
	case c.tableID != "":
		return StatusStarted
	case c.cancelled:
		return StatusCancelled
	case c.expired:
		return StatusExpired
	default:
		return StatusOpen
	}
}

func (c *Challenge) allSeatsFilledLocked() bool {
	for _, s := range c.seats {
		if s.playerID == "" {
			return false
		}
	}
	return true
}

func (c *Challenge) seatSnapshotLocked() [4]SeatView {
	var out [4]SeatView
	for i, s := range c.seats {
		out[i] = SeatView{PlayerID: s.playerID, Name: s.name}
	}
	return out
}

func (c *Challenge) logTransition(stateName string, event statemachine.StateEvent) {
	if c.log == nil {
		return
	}
	switch event {
	case statemachine.StateEntered:
		c.log.Debugf("challenge %s entered %s", c.id, stateName)
	case statemachine.StateExited:
		c.log.Debugf("challenge %s exited %s", c.id, stateName)
	}
}

// broadcast sends evt to every distinct subscriber channel currently bound
// to the challenge (the creator's channel, if any, plus every occupied
// seat's channel), deduplicating the creator's own seat. Sends are
// non-blocking: a subscriber that stopped reading is dropped silently,
// per spec §7's "subscription send failures are dropped silently".
func (c *Challenge) broadcast(evt Event) {
	c.mu.Lock()
	chans := make(map[chan Event]struct{}, 5)
	if c.creatorEvents != nil {
		chans[c.creatorEvents] = struct{}{}
	}
	for _, s := range c.seats {
		if s.events != nil {
			chans[s.events] = struct{}{}
		}
	}
	c.mu.Unlock()

	for ch := range chans {
		select {
		case ch <- evt:
		default:
		}
	}
}
