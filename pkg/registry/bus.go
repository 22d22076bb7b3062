package registry

import "github.com/sasha-s/go-deadlock"

// subscriberBufferSize is the per-subscriber channel depth; a full
// subscriber's events are silently dropped (spec §4.3 "lagged subscribers
// may silently skip events"), grounded on the teacher's
// EventProcessor.PublishEvent non-blocking select/default idiom
// (pkg/server/events.go), but sent directly per-subscriber rather than
// through a worker queue — see SPEC_FULL.md's registry event bus note on
// why per-table ordering requires a synchronous post-unlock publish.
const subscriberBufferSize = 32

// bus is a single table's fan-out: a set of subscriber channels, each
// non-blocking on send. Subscribers only see events published after they
// subscribe; there is no history replay.
type bus struct {
	mu          deadlock.Mutex
	subscribers map[int]chan Event
	nextID      int
	closed      bool
}

func newBus() *bus {
	return &bus{subscribers: make(map[int]chan Event)}
}

func (b *bus) subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBufferSize)
	id := b.nextID
	b.nextID++
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subscribers[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

func (b *bus) publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			// Lagged subscriber; drop silently per spec §4.3.
		}
	}
}

// close closes every subscriber's channel; further publishes are no-ops.
func (b *bus) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
