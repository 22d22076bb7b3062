// Package store is the durable persistence layer for table snapshots,
// grounded on the teacher's pkg/server/internal/db/db.go sql.Open/
// createTables/CRUD idiom but with the schema simplified to a single JSON
// BLOB column per table, per spec §4.3/§6's "opaque structured encoding of
// the full table struct."
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spadesd/spadesd/pkg/table"
)

// Store persists table.PersistedState snapshots keyed by table id.
type Store struct {
	db *sql.DB
}

// Open creates or attaches to a SQLite database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) createTables() error {
	const schema = `
CREATE TABLE IF NOT EXISTS tables (
	table_id TEXT PRIMARY KEY,
	state    BLOB NOT NULL
);
`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or updates a table's persisted snapshot. The write
// transaction commits before this call returns, satisfying spec §6's
// read-your-writes requirement.
func (s *Store) Save(ps table.PersistedState) error {
	blob, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", ps.ID, err)
	}

	const query = `
INSERT INTO tables (table_id, state) VALUES (?, ?)
ON CONFLICT(table_id) DO UPDATE SET state = excluded.state;
`
	if _, err := s.db.Exec(query, ps.ID, blob); err != nil {
		return fmt.Errorf("store: save %s: %w", ps.ID, err)
	}
	return nil
}

// ErrNotFound is returned by Load when no row exists for the given id.
var ErrNotFound = fmt.Errorf("store: table not found")

// Load reads a single table's persisted snapshot by id. It always issues a
// fresh SELECT, so it observes any Save that returned before this call.
func (s *Store) Load(tableID string) (table.PersistedState, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT state FROM tables WHERE table_id = ?`, tableID).Scan(&blob)
	if err == sql.ErrNoRows {
		return table.PersistedState{}, ErrNotFound
	}
	if err != nil {
		return table.PersistedState{}, fmt.Errorf("store: load %s: %w", tableID, err)
	}

	var ps table.PersistedState
	if err := json.Unmarshal(blob, &ps); err != nil {
		return table.PersistedState{}, fmt.Errorf("store: unmarshal %s: %w", tableID, err)
	}
	return ps, nil
}

// Delete removes a table's persisted snapshot. Deleting an unknown id is
// not an error — callers that want NotFound semantics check existence via
// Load first (this mirrors the teacher's DeleteTableState, which is a plain
// idempotent DELETE).
func (s *Store) Delete(tableID string) error {
	if _, err := s.db.Exec(`DELETE FROM tables WHERE table_id = ?`, tableID); err != nil {
		return fmt.Errorf("store: delete %s: %w", tableID, err)
	}
	return nil
}

// LoadAll reads every persisted table snapshot, for boot-time restore.
func (s *Store) LoadAll() ([]table.PersistedState, error) {
	rows, err := s.db.Query(`SELECT state FROM tables`)
	if err != nil {
		return nil, fmt.Errorf("store: load all: %w", err)
	}
	defer rows.Close()

	var all []table.PersistedState
	for rows.Next() {
		var blob []byte
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		var ps table.PersistedState
		if err := json.Unmarshal(blob, &ps); err != nil {
			return nil, fmt.Errorf("store: unmarshal row: %w", err)
		}
		all = append(all, ps)
	}
	return all, rows.Err()
}
