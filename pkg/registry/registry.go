// Package registry implements the process-wide table registry: the
// concurrent map from table id to a singly-owned table, its durable
// persistence, and its per-table fan-out event bus. Grounded on the
// teacher's pkg/server/server.go (the top-level tables map + RWMutex) and
// pkg/server/events.go (the fan-out publish idiom).
package registry

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/decred/slog"
	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"

	"github.com/spadesd/spadesd/pkg/cards"
	"github.com/spadesd/spadesd/pkg/scheduler"
	"github.com/spadesd/spadesd/pkg/store"
	"github.com/spadesd/spadesd/pkg/table"
)

// Errors returned by registry operations, per the taxonomy in spec §7.
var (
	ErrTableNotFound = errors.New("registry: table not found")
	ErrInvalidPlayer = errors.New("registry: player not seated at table")
)

type tableEntry struct {
	tbl *table.Table
	bus *bus
}

// Registry owns every live table, its persistence, and its event bus.
type Registry struct {
	mu     deadlock.RWMutex
	tables map[string]*tableEntry

	store *store.Store
	sched *scheduler.Scheduler
	log   slog.Logger
}

// New constructs an empty Registry. Call Boot to restore persisted tables
// before serving traffic.
func New(st *store.Store, sched *scheduler.Scheduler, log slog.Logger) *Registry {
	return &Registry{
		tables: make(map[string]*tableEntry),
		store:  st,
		sched:  sched,
		log:    log,
	}
}

// SetScheduler attaches the scheduler that drives this registry's clocked
// transitions. The two are mutually referential at construction (the
// scheduler needs the registry as its Host, the registry needs the
// scheduler to drive ApplyMove), so callers build both with a nil/self
// reference and wire them together with SetScheduler before calling Boot
// or serving any request — mirroring the two-phase wiring cmd/spadesd does
// for every process-wide collaborator pair.
func (r *Registry) SetScheduler(sched *scheduler.Scheduler) {
	r.sched = sched
}

// PersistTable implements scheduler.Host.
func (r *Registry) PersistTable(tbl *table.Table) {
	if err := r.store.Save(tbl.Export()); err != nil {
		// Persistence failures are logged but do not roll back the
		// in-memory transition (spec §7 propagation policy); the mutation
		// stays authoritative and a later write attempts to re-sync.
		r.log.Errorf("registry: persist table %s: %v", tbl.ID(), err)
	}
}

// PublishStateChanged implements scheduler.Host.
func (r *Registry) PublishStateChanged(tableID string, snap table.Snapshot) {
	r.publish(tableID, Event{Kind: EventStateChanged, TableID: tableID, Snapshot: snap})
}

// PublishGameAborted implements scheduler.Host.
func (r *Registry) PublishGameAborted(tableID, reason string) {
	r.publish(tableID, Event{Kind: EventGameAborted, TableID: tableID, Reason: reason})
}

func (r *Registry) publish(tableID string, evt Event) {
	r.mu.RLock()
	entry, ok := r.tables[tableID]
	r.mu.RUnlock()
	if ok {
		entry.bus.publish(evt)
	}
}

// CreateTable allocates a new table with a fresh 128-bit identifier, seats
// the four given player ids, and persists it. It does not drive Start —
// per spec §2, matchmakers create the table then separately drive Start
// through ApplyMove, the same path a human Start would take.
func (r *Registry) CreateTable(seatIDs [4]string, maxPoints int, clockConfig *table.ClockConfig) (string, error) {
	id := uuid.New().String()

	var seats [4]table.SeatInfo
	for i, pid := range seatIDs {
		seats[i] = table.SeatInfo{PlayerID: pid}
	}

	tbl := table.New(table.Config{
		ID:          id,
		Seats:       seats,
		MaxPoints:   maxPoints,
		ClockConfig: clockConfig,
		Rand:        rand.New(rand.NewSource(rand.Int63())),
	})

	r.mu.Lock()
	r.tables[id] = &tableEntry{tbl: tbl, bus: newBus()}
	r.mu.Unlock()

	if err := r.store.Save(tbl.Export()); err != nil {
		r.log.Errorf("registry: persist new table %s: %v", id, err)
	}

	return id, nil
}

func (r *Registry) lookup(tableID string) (*tableEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.tables[tableID]
	if !ok {
		return nil, ErrTableNotFound
	}
	return entry, nil
}

// GetSnapshot returns the state-response shape for a table.
func (r *Registry) GetSnapshot(tableID string) (table.Snapshot, error) {
	entry, err := r.lookup(tableID)
	if err != nil {
		return table.Snapshot{}, err
	}
	return entry.tbl.GetStateSnapshot(), nil
}

// GetHand returns a player's current hand.
func (r *Registry) GetHand(tableID, playerID string) ([]cards.Card, error) {
	entry, err := r.lookup(tableID)
	if err != nil {
		return nil, err
	}
	seat, ok := entry.tbl.SeatForPlayer(playerID)
	if !ok {
		return nil, ErrInvalidPlayer
	}
	return entry.tbl.GetHand(seat), nil
}

// ApplyMove drives one transition on a table through the scheduler, which
// handles clock bookkeeping, persistence, publication, and re-arming.
func (r *Registry) ApplyMove(tableID string, move table.Move) (table.Result, error) {
	entry, err := r.lookup(tableID)
	if err != nil {
		return table.Result{}, err
	}
	return r.sched.ApplyMove(entry.tbl, move)
}

// SetName is the administrative display-name setter. It publishes a
// StateChanged event the same as any other update (spec §4.3).
func (r *Registry) SetName(tableID, playerID string, name string) error {
	entry, err := r.lookup(tableID)
	if err != nil {
		return err
	}
	seat, ok := entry.tbl.SeatForPlayer(playerID)
	if !ok {
		return ErrInvalidPlayer
	}
	entry.tbl.SetPlayerName(seat, name)
	r.PersistTable(entry.tbl)
	r.PublishStateChanged(tableID, entry.tbl.GetStateSnapshot())
	return nil
}

// RemoveTable cancels the table's pending timeout, deletes its persisted
// row, closes its event bus, and forgets it.
func (r *Registry) RemoveTable(tableID string) error {
	r.mu.Lock()
	entry, ok := r.tables[tableID]
	if !ok {
		r.mu.Unlock()
		return ErrTableNotFound
	}
	delete(r.tables, tableID)
	r.mu.Unlock()

	r.sched.CancelTable(tableID)
	entry.bus.close()
	if err := r.store.Delete(tableID); err != nil {
		return fmt.Errorf("registry: delete table %s: %w", tableID, err)
	}
	return nil
}

// Subscribe returns a receiver of future events for a table, plus an
// unsubscribe function the caller should call when it stops listening.
func (r *Registry) Subscribe(tableID string) (<-chan Event, func(), error) {
	entry, err := r.lookup(tableID)
	if err != nil {
		return nil, nil, err
	}
	ch, unsubscribe := entry.bus.subscribe()
	return ch, unsubscribe, nil
}

// ListTables returns every live table id. Order is unspecified.
func (r *Registry) ListTables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	return ids
}
