// Package seek implements the quickplay seek broker: a single ordered
// queue grouping seeks by an exact (max-points, clock-configuration) key
// and matching four at a time into a new table. Grounded on the teacher's
// pkg/server/lobby.go join/ready bookkeeping for the seat-assignment shape
// and on other_examples' matchmaking.go queue-then-batch-extract idiom;
// the queue itself uses gammazero/deque for O(1) push-back/pop-front.
package seek

import (
	"github.com/decred/slog"
	"github.com/gammazero/deque"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"

	"github.com/spadesd/spadesd/pkg/registry"
	"github.com/spadesd/spadesd/pkg/table"
)

// Key is the exact-match grouping key: seeks match only when max-points AND
// the full clock configuration (including absence of one) are identical.
type Key struct {
	MaxPoints        int
	Timed            bool
	InitialSeconds   int
	IncrementSeconds int
}

func keyFor(maxPoints int, cc *table.ClockConfig) Key {
	if cc == nil {
		return Key{MaxPoints: maxPoints}
	}
	return Key{
		MaxPoints:        maxPoints,
		Timed:            true,
		InitialSeconds:   cc.InitialSeconds,
		IncrementSeconds: cc.IncrementSeconds,
	}
}

// EventKind tags the two event kinds a seeker's channel carries.
type EventKind int

const (
	EventQueueUpdate EventKind = iota
	EventGameStart
)

// Event is delivered to a seeker over its subscription channel.
type Event struct {
	Kind     EventKind
	Waiting  int    // meaningful on EventQueueUpdate
	TableID  string // meaningful on EventGameStart
	PlayerID string // meaningful on EventGameStart: the seeker's own id
}

const subscriberBufferSize = 8

type entry struct {
	playerID string
	key      Key
	name     string
	events   chan Event
}

// Broker matches compatible seeks into tables of four.
type Broker struct {
	mu    deadlock.Mutex
	queue deque.Deque[*entry]

	reg *registry.Registry
	log slog.Logger
}

// New constructs a Broker backed by reg for table creation.
func New(reg *registry.Registry, log slog.Logger) *Broker {
	return &Broker{reg: reg, log: log}
}

// AddSeek enqueues a seeker and returns its minted player id and event
// channel. Enqueuing may immediately complete a match of four.
func (b *Broker) AddSeek(maxPoints int, clockConfig *table.ClockConfig, name string) (string, <-chan Event) {
	playerID := uuid.New().String()
	e := &entry{
		playerID: playerID,
		key:      keyFor(maxPoints, clockConfig),
		name:     name,
		events:   make(chan Event, subscriberBufferSize),
	}

	b.mu.Lock()
	b.queue.PushBack(e)
	b.mu.Unlock()

	b.tryMatch(e.key, clockConfig)
	return playerID, e.events
}

// CancelSeek removes a player's seek if present; unknown players are a
// no-op (spec §8 idempotence law).
func (b *Broker) CancelSeek(playerID string) {
	b.mu.Lock()
	var key Key
	found := false
	rebuilt := deque.Deque[*entry]{}
	for i := 0; i < b.queue.Len(); i++ {
		e := b.queue.At(i)
		if e.playerID == playerID {
			found = true
			key = e.key
			continue
		}
		rebuilt.PushBack(e)
	}
	if found {
		b.queue = rebuilt
	}
	b.mu.Unlock()

	if found {
		b.notifyWaiting(key)
	}
}

// ListSeeks reports, for every distinct key currently represented in the
// queue, how many seekers are waiting under it.
func (b *Broker) ListSeeks() []struct {
	Key     Key
	Waiting int
} {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(map[Key]int)
	var order []Key
	for i := 0; i < b.queue.Len(); i++ {
		k := b.queue.At(i).key
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	result := make([]struct {
		Key     Key
		Waiting int
	}, 0, len(order))
	for _, k := range order {
		result = append(result, struct {
			Key     Key
			Waiting int
		}{Key: k, Waiting: counts[k]})
	}
	return result
}

// tryMatch extracts the four oldest seeks sharing key, if at least four are
// queued, and asks the registry to create and start a table for them. On
// failure the four are restored to the head of the queue; seeks are never
// silently dropped.
func (b *Broker) tryMatch(key Key, clockConfig *table.ClockConfig) {
	b.mu.Lock()
	var matched []*entry
	var rest deque.Deque[*entry]
	for i := 0; i < b.queue.Len(); i++ {
		e := b.queue.At(i)
		if e.key == key && len(matched) < 4 {
			matched = append(matched, e)
		} else {
			rest.PushBack(e)
		}
	}
	if len(matched) < 4 {
		b.mu.Unlock()
		return
	}
	b.queue = rest
	b.mu.Unlock()

	var seatIDs [4]string
	for i, e := range matched {
		seatIDs[i] = e.playerID
	}

	tableID, err := b.reg.CreateTable(seatIDs, key.MaxPoints, clockConfig)
	if err == nil {
		_, err = b.reg.ApplyMove(tableID, table.StartMove{})
	}
	if err != nil {
		b.log.Errorf("seek: match for key %+v failed, requeueing: %v", key, err)
		b.requeueFront(matched)
		return
	}

	for _, e := range matched {
		if e.name != "" {
			b.reg.SetName(tableID, e.playerID, e.name)
		}
		e.events <- Event{Kind: EventGameStart, TableID: tableID, PlayerID: e.playerID}
	}

	b.notifyWaiting(key)
}

// requeueFront puts failed-match seeks back at the head of the queue, in
// their original relative order.
func (b *Broker) requeueFront(matched []*entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(matched) - 1; i >= 0; i-- {
		b.queue.PushFront(matched[i])
	}
}

func (b *Broker) notifyWaiting(key Key) {
	b.mu.Lock()
	waiting := 0
	var toNotify []*entry
	for i := 0; i < b.queue.Len(); i++ {
		e := b.queue.At(i)
		if e.key == key {
			waiting++
			toNotify = append(toNotify, e)
		}
	}
	b.mu.Unlock()

	for _, e := range toNotify {
		select {
		case e.events <- Event{Kind: EventQueueUpdate, Waiting: waiting}:
		default:
		}
	}
}
