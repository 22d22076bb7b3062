// Package challenge implements the seat-based invitation broker: a
// creator opens a challenge for up to four named seats, joiners fill
// them, and the broker atomically hands the filled challenge off to the
// registry as a new table. Grounded on the teacher's pkg/server/lobby.go
// seat-assignment/buy-in bookkeeping for the "mint a player id, bind it to
// a seat" mechanics, and on pkg/statemachine (the teacher's Rob-Pike
// state-function pattern, reused here for the Open/Started/Cancelled/
// Expired lifecycle instead of player at-table/folded/all-in/left).
package challenge

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"

	"github.com/spadesd/spadesd/pkg/registry"
	"github.com/spadesd/spadesd/pkg/statemachine"
	"github.com/spadesd/spadesd/pkg/table"
)

// Broker owns every open, started, cancelled, and expired challenge and
// drives the fourth-seat-fills-table handoff to the registry.
type Broker struct {
	mu         deadlock.Mutex
	challenges map[string]*Challenge

	reg *registry.Registry
	clk clock.Clock
	log slog.Logger
}

// New constructs a Broker. clk is injected so expiry tasks can be tested
// deterministically against a *clock.Mock, the same discipline
// pkg/scheduler uses for turn-clock timeouts.
func New(reg *registry.Registry, clk clock.Clock, log slog.Logger) *Broker {
	return &Broker{
		challenges: make(map[string]*Challenge),
		reg:        reg,
		clk:        clk,
		log:        log,
	}
}

// CreateChallenge allocates a challenge, optionally seating the creator,
// and arms its expiry task. seat is nil when the creator does not take a
// seat. The returned channel receives every subsequent event for the
// challenge regardless of whether the creator occupies a seat.
func (b *Broker) CreateChallenge(maxPoints int, clockConfig *table.ClockConfig, seat *table.Seat, name string, expirySeconds int) (challengeID string, creatorPlayerID string, events <-chan Event) {
	id := uuid.New().String()
	c := &Challenge{
		id:            id,
		maxPoints:     maxPoints,
		clockConfig:   clockConfig,
		expirySeconds: expirySeconds,
		creatorEvents: make(chan Event, subscriberBufferSize),
		log:           b.log,
	}
	c.sm = statemachine.NewStateMachine(c, challengeStateOpen)

	if seat != nil {
		creatorPlayerID = uuid.New().String()
		c.seats[*seat] = seatSlot{playerID: creatorPlayerID, name: name, events: c.creatorEvents}
	}
	c.creatorPlayerID = creatorPlayerID

	b.mu.Lock()
	b.challenges[id] = c
	b.mu.Unlock()

	c.timer = b.clk.AfterFunc(time.Duration(expirySeconds)*time.Second, func() { b.expire(id) })

	return id, creatorPlayerID, c.creatorEvents
}

func (b *Broker) lookup(challengeID string) (*Challenge, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.challenges[challengeID]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// JoinChallenge binds a freshly minted player id to seat, if open and
// unoccupied. When the fourth seat fills, the broker hands the challenge
// off to the registry before returning.
func (b *Broker) JoinChallenge(challengeID string, seat table.Seat, name string) (string, <-chan Event, error) {
	c, err := b.lookup(challengeID)
	if err != nil {
		return "", nil, err
	}

	c.mu.Lock()
	if c.statusLocked() != StatusOpen {
		c.mu.Unlock()
		return "", nil, ErrNotOpen
	}
	if c.seats[seat].playerID != "" {
		c.mu.Unlock()
		return "", nil, ErrSeatTaken
	}

	playerID := uuid.New().String()
	ch := make(chan Event, subscriberBufferSize)
	c.seats[seat] = seatSlot{playerID: playerID, name: name, events: ch}
	full := c.allSeatsFilledLocked()
	snapshot := c.seatSnapshotLocked()
	c.mu.Unlock()

	if !full {
		c.broadcast(Event{Kind: EventSeatUpdate, Seats: snapshot})
		return playerID, ch, nil
	}

	b.startTable(c)
	return playerID, ch, nil
}

// VacateSeat clears a seat if it is still occupied by playerID; any other
// call (unknown challenge, seat already vacated or reassigned, non-open
// status) is a no-op, per spec §8's idempotence law.
func (b *Broker) VacateSeat(challengeID string, seat table.Seat, playerID string) {
	c, err := b.lookup(challengeID)
	if err != nil {
		return
	}

	c.mu.Lock()
	if c.statusLocked() != StatusOpen || c.seats[seat].playerID != playerID {
		c.mu.Unlock()
		return
	}
	c.seats[seat] = seatSlot{}
	snapshot := c.seatSnapshotLocked()
	c.mu.Unlock()

	c.broadcast(Event{Kind: EventSeatUpdate, Seats: snapshot})
}

// CancelChallenge is authorized only against the creator id and only in
// Open status.
func (b *Broker) CancelChallenge(challengeID, requesterID string) error {
	c, err := b.lookup(challengeID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.statusLocked() != StatusOpen {
		c.mu.Unlock()
		return ErrNotOpen
	}
	if c.creatorPlayerID == "" || c.creatorPlayerID != requesterID {
		c.mu.Unlock()
		return ErrNotCreator
	}
	c.cancelled = true
	c.cancelReason = "cancelled by creator"
	if c.timer != nil {
		c.timer.Stop()
	}
	c.sm.Dispatch(c.logTransition)
	reason := c.cancelReason
	c.mu.Unlock()

	c.broadcast(Event{Kind: EventCancelled, Reason: reason})
	return nil
}

// GetChallenge reports a challenge's current status.
func (b *Broker) GetChallenge(challengeID string) (Status, error) {
	c, err := b.lookup(challengeID)
	if err != nil {
		return 0, err
	}
	return c.Status(), nil
}

// CountOpen reports how many challenges are currently in Open status.
func (b *Broker) CountOpen() int {
	b.mu.Lock()
	challenges := make([]*Challenge, 0, len(b.challenges))
	for _, c := range b.challenges {
		challenges = append(challenges, c)
	}
	b.mu.Unlock()

	n := 0
	for _, c := range challenges {
		if c.Status() == StatusOpen {
			n++
		}
	}
	return n
}

// expire is the expiry-task callback armed by CreateChallenge. A
// challenge that has already left Open status (started or cancelled in
// the meantime) ignores its own stale expiry, per spec §7 "timeout tasks
// that find the table missing or in a terminal phase simply return."
func (b *Broker) expire(challengeID string) {
	c, err := b.lookup(challengeID)
	if err != nil {
		return
	}

	c.mu.Lock()
	if c.statusLocked() != StatusOpen {
		c.mu.Unlock()
		return
	}
	c.expired = true
	c.sm.Dispatch(c.logTransition)
	c.mu.Unlock()

	c.broadcast(Event{Kind: EventExpired})
}

// startTable performs the fourth-seat-fills-table handoff described in
// spec §4.6: cancel the expiry task, create and start the table, set seat
// names, update the challenge's own status, then publish GameStart. If
// table creation or Start fails, status remains Open and a fresh expiry
// task is armed in place of the one just cancelled.
func (b *Broker) startTable(c *Challenge) {
	c.mu.Lock()
	if c.statusLocked() != StatusOpen {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	seats := c.seats
	c.mu.Unlock()

	var seatIDs [4]string
	for i, s := range seats {
		seatIDs[i] = s.playerID
	}

	tableID, err := b.reg.CreateTable(seatIDs, c.maxPoints, c.clockConfig)
	if err == nil {
		_, err = b.reg.ApplyMove(tableID, table.StartMove{})
	}
	if err != nil {
		b.log.Errorf("challenge: start table for %s failed, remains open: %v", c.id, err)
		c.mu.Lock()
		c.timer = b.clk.AfterFunc(time.Duration(c.expirySeconds)*time.Second, func() { b.expire(c.id) })
		c.mu.Unlock()
		return
	}

	for _, s := range seats {
		if s.name != "" {
			b.reg.SetName(tableID, s.playerID, s.name)
		}
	}

	c.mu.Lock()
	c.tableID = tableID
	c.sm.Dispatch(c.logTransition)
	c.mu.Unlock()

	c.broadcast(Event{Kind: EventGameStart, TableID: tableID})
}
