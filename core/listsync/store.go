package listsync

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// errors
	ErrNotFound         = errors.New("record not found")
	ErrMutationInFlight = errors.New("another change to this record is still being saved")
	ErrNotPendingID     = errors.New("optimistic create requires a pending id")
)

const pendingPrefix = "pending-"

// PendingID returns a fresh synthetic id for an optimistic record,
// distinguishable from any server identifier.
func PendingID() string { return pendingPrefix + uuid.NewString() }

// IsPendingID reports whether id is a synthetic client-side tag.
func IsPendingID(id string) bool { return strings.HasPrefix(id, pendingPrefix) }

type mutationOp int

const (
	opCreate mutationOp = iota
	opUpdate
	opDelete
)

// Mutation binds a staged local change to the pre-mutation snapshot of the
// collection and to its later reconciliation. It is settled exactly once:
// either reconciled with server truth or rolled back.
type Mutation[T any] struct {
	id       string
	op       mutationOp
	snapshot []T
	settled  bool
}

// RecordID returns the id of the record the mutation affects; for creates
// this is the synthetic pending id.
func (m *Mutation[T]) RecordID() string { return m.id }

// Store is the in-memory ordered collection of records for one screen.
// Every local transition is atomic; backend calls happen outside the lock,
// between the optimistic apply and Reconcile/Rollback.
type Store[T any] struct {
	mu      sync.Mutex
	id      func(T) string
	records []T
	pending map[string]*Mutation[T]
}

func NewStore[T any](id func(T) string) *Store[T] {
	return &Store[T]{
		id:      id,
		pending: make(map[string]*Mutation[T]),
	}
}

// Replace swaps in the authoritative record list from a fetch.
func (s *Store[T]) Replace(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]T(nil), records...)
}

func (s *Store[T]) Records() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.records...)
}

func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	var zero T
	return zero, false
}

// IsPending reports whether a mutation on the given id is still outstanding.
// Callers disable the edit affordance for pending records, which is what
// serializes concurrent edits to the same record.
func (s *Store[T]) IsPending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

// OptimisticCreate inserts the record at the head of the collection
// immediately. The record must carry a synthetic id from PendingID.
func (s *Store[T]) OptimisticCreate(temp T) (*Mutation[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id(temp)
	if !IsPendingID(id) {
		return nil, ErrNotPendingID
	}
	if _, ok := s.pending[id]; ok {
		return nil, ErrMutationInFlight
	}

	m := &Mutation[T]{id: id, op: opCreate, snapshot: s.snapshot()}
	s.records = append([]T{temp}, s.records...)
	s.pending[id] = m
	return m, nil
}

// OptimisticUpdate replaces the record at id with the merged copy immediately.
func (s *Store[T]) OptimisticUpdate(id string, merge func(T) T) (*Mutation[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[id]; ok {
		return nil, ErrMutationInFlight
	}
	i := s.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	m := &Mutation[T]{id: id, op: opUpdate, snapshot: s.snapshot()}
	s.records[i] = merge(s.records[i])
	s.pending[id] = m
	return m, nil
}

// OptimisticDelete removes the record at id immediately.
func (s *Store[T]) OptimisticDelete(id string) (*Mutation[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[id]; ok {
		return nil, ErrMutationInFlight
	}
	i := s.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	m := &Mutation[T]{id: id, op: opDelete, snapshot: s.snapshot()}
	s.records = append(s.records[:i], s.records[i+1:]...)
	s.pending[id] = m
	return m, nil
}

// Reconcile replaces the optimistic record with the authoritative server
// record, in the same position. Settling a mutation twice is a no-op.
func (s *Store[T]) Reconcile(m *Mutation[T], server T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settle(m) {
		return
	}
	if m.op == opDelete {
		return
	}
	if i := s.index(m.id); i >= 0 {
		s.records[i] = server
	}
}

// Settle marks a delete mutation as confirmed by the backend.
func (s *Store[T]) Settle(m *Mutation[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(m)
}

// Rollback restores the whole pre-mutation snapshot, never a partial patch.
func (s *Store[T]) Rollback(m *Mutation[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settle(m) {
		return
	}
	s.records = append([]T(nil), m.snapshot...)
}

func (s *Store[T]) snapshot() []T {
	return append([]T(nil), s.records...)
}

func (s *Store[T]) index(id string) int {
	for i, rec := range s.records {
		if s.id(rec) == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) settle(m *Mutation[T]) bool {
	if m.settled {
		return false
	}
	m.settled = true
	delete(s.pending, m.id)
	return true
}
