package listsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	ID   string
	Name string
}

func recID(r rec) string { return r.ID }

func newTestStore() *Store[rec] {
	s := NewStore(recID)
	s.Replace([]rec{{ID: "a", Name: "An"}, {ID: "b", Name: "Binh"}})
	return s
}

func TestStoreOptimisticCreate(t *testing.T) {
	s := newTestStore()

	temp := rec{ID: PendingID(), Name: "Chi"}
	m, err := s.OptimisticCreate(temp)
	require.NoError(t, err)

	// The temp record is visible immediately, at the head.
	records := s.Records()
	require.Len(t, records, 3)
	assert.Equal(t, "Chi", records[0].Name)
	assert.True(t, IsPendingID(records[0].ID))
	assert.True(t, s.IsPending(temp.ID))

	// Reconciling swaps in the server record at the same position.
	s.Reconcile(m, rec{ID: "42", Name: "Chi"})
	records = s.Records()
	assert.Equal(t, []rec{{ID: "42", Name: "Chi"}, {ID: "a", Name: "An"}, {ID: "b", Name: "Binh"}}, records)
	assert.False(t, s.IsPending(temp.ID))
}

func TestStoreOptimisticCreateRequiresPendingID(t *testing.T) {
	s := newTestStore()
	_, err := s.OptimisticCreate(rec{ID: "42", Name: "Chi"})
	assert.ErrorIs(t, err, ErrNotPendingID)
}

func TestStoreCreateRollback(t *testing.T) {
	s := newTestStore()

	m, err := s.OptimisticCreate(rec{ID: PendingID(), Name: "Chi"})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	s.Rollback(m)
	assert.Equal(t, []rec{{ID: "a", Name: "An"}, {ID: "b", Name: "Binh"}}, s.Records())
}

func TestStoreOptimisticUpdate(t *testing.T) {
	s := newTestStore()

	m, err := s.OptimisticUpdate("b", func(r rec) rec {
		r.Name = "Binh Updated"
		return r
	})
	require.NoError(t, err)

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "Binh Updated", got.Name)

	// A second mutation on the same record is refused while one is in flight.
	_, err = s.OptimisticUpdate("b", func(r rec) rec { return r })
	assert.ErrorIs(t, err, ErrMutationInFlight)
	_, err = s.OptimisticDelete("b")
	assert.ErrorIs(t, err, ErrMutationInFlight)

	s.Rollback(m)
	got, _ = s.Get("b")
	assert.Equal(t, "Binh", got.Name)
	assert.False(t, s.IsPending("b"))
}

func TestStoreOptimisticDelete(t *testing.T) {
	s := newTestStore()

	m, err := s.OptimisticDelete("a")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	s.Settle(m)
	assert.Equal(t, []rec{{ID: "b", Name: "Binh"}}, s.Records())

	_, err = s.OptimisticDelete("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDeleteRollbackRestoresOrder(t *testing.T) {
	s := newTestStore()

	m, err := s.OptimisticDelete("a")
	require.NoError(t, err)

	s.Rollback(m)
	assert.Equal(t, []rec{{ID: "a", Name: "An"}, {ID: "b", Name: "Binh"}}, s.Records())
}

func TestStoreSettleOnce(t *testing.T) {
	s := newTestStore()

	m, err := s.OptimisticUpdate("a", func(r rec) rec {
		r.Name = "An Updated"
		return r
	})
	require.NoError(t, err)

	s.Reconcile(m, rec{ID: "a", Name: "An Server"})
	// A late rollback of an already settled mutation must not clobber state.
	s.Rollback(m)

	got, _ := s.Get("a")
	assert.Equal(t, "An Server", got.Name)
}
