package registry

import "github.com/spadesd/spadesd/pkg/table"

// EventKind tags the two event kinds the fan-out channel carries (spec §4.3).
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventGameAborted
)

// Event is published to every subscriber of a table's fan-out channel.
type Event struct {
	Kind     EventKind
	TableID  string
	Snapshot table.Snapshot // meaningful on EventStateChanged
	Reason   string         // meaningful on EventGameAborted
}
