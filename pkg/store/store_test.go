package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spadesd/spadesd/pkg/table"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	ps := table.PersistedState{
		ID:         "tbl-1",
		MaxPoints:  500,
		RoundIndex: 2,
		Phase:      table.Phase{Kind: table.Betting, Position: 1},
	}
	require.NoError(t, s.Save(ps))

	loaded, err := s.Load("tbl-1")
	require.NoError(t, err)
	require.Equal(t, ps.ID, loaded.ID)
	require.Equal(t, ps.MaxPoints, loaded.MaxPoints)
	require.Equal(t, ps.Phase, loaded.Phase)
}

func TestLoadMissingReturnsNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Load("nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSaveIsUpsert(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(table.PersistedState{ID: "tbl-1", RoundIndex: 0}))
	require.NoError(t, s.Save(table.PersistedState{ID: "tbl-1", RoundIndex: 5}))

	loaded, err := s.Load("tbl-1")
	require.NoError(t, err)
	require.Equal(t, 5, loaded.RoundIndex)
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(table.PersistedState{ID: "tbl-1"}))
	require.NoError(t, s.Delete("tbl-1"))
	require.NoError(t, s.Delete("tbl-1"))

	_, err := s.Load("tbl-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadAllReturnsEveryRow(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(table.PersistedState{ID: "a"}))
	require.NoError(t, s.Save(table.PersistedState{ID: "b"}))

	all, err := s.LoadAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
}
