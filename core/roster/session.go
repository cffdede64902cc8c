package roster

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/school"
)

var (
	// errors
	ErrAtCapacity   = errors.New("the class roster is already at capacity")
	ErrOverCapacity = errors.New("the class roster exceeds its capacity")
	ErrNotInList    = errors.New("student not in this list")
)

// Membership is one class's authoritative roster state: the students in the
// class, the eligible students not in it, and the capacity bound.
type Membership struct {
	InGroup   []school.Student
	Available []school.Student
	Capacity  int
}

// Service is the roster collaborator. SetGroupMembership carries
// replace-semantics: the id list is the new authoritative membership, not a
// diff, which keeps arbitrary back-and-forth moves before commit cheap and
// the operation idempotent.
type Service interface {
	GetGroupMembership(ctx context.Context, groupID string) (Membership, error)
	SetGroupMembership(ctx context.Context, groupID string, memberIDs []string) error
}

// Side selects one of the two roster lists.
type Side int

const (
	SideInGroup Side = iota
	SideAvailable
)

func (s Side) other() Side {
	if s == SideInGroup {
		return SideAvailable
	}
	return SideInGroup
}

// Session is the state machine behind the roster modal. All moves are
// local-only until Commit sends the full membership list; Cancel discards
// everything. The two lists stay strictly partitioned: a student is always
// in exactly one of them while the session is open.
type Session struct {
	svc Service
	log core.Logger

	mu       sync.Mutex
	groupID  string
	loaded   Membership
	lists    map[Side][]school.Student
	selected map[Side]map[string]bool
	capacity int
}

func NewSession(svc Service, log core.Logger) *Session {
	if log == nil {
		log = core.NopLogger()
	}
	return &Session{
		svc: svc,
		log: log,
		lists: map[Side][]school.Student{
			SideInGroup:   nil,
			SideAvailable: nil,
		},
		selected: map[Side]map[string]bool{
			SideInGroup:   {},
			SideAvailable: {},
		},
	}
}

// Load fetches the group's membership and initializes the two lists.
func (s *Session) Load(ctx context.Context, groupID string) error {
	membership, err := s.svc.GetGroupMembership(ctx, groupID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupID = groupID
	s.loaded = membership
	s.capacity = membership.Capacity
	s.lists[SideInGroup] = append([]school.Student(nil), membership.InGroup...)
	s.lists[SideAvailable] = append([]school.Student(nil), membership.Available...)
	s.selected[SideInGroup] = map[string]bool{}
	s.selected[SideAvailable] = map[string]bool{}
	return nil
}

func (s *Session) InGroup() []school.Student   { return s.list(SideInGroup) }
func (s *Session) Available() []school.Student { return s.list(SideAvailable) }

func (s *Session) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capacity
}

// OverCapacity reports whether committing would currently be rejected.
func (s *Session) OverCapacity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists[SideInGroup]) > s.capacity
}

// ToggleSelect flips one student's selection mark. Selection is local-only;
// no network is involved.
func (s *Session) ToggleSelect(side Side, studentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected[side][studentID] {
		delete(s.selected[side], studentID)
	} else {
		s.selected[side][studentID] = true
	}
}

// SelectAll marks every student on a side, or clears the marks when all are
// already selected.
func (s *Session) SelectAll(side Side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.selected[side]) == len(s.lists[side]) && len(s.lists[side]) > 0 {
		s.selected[side] = map[string]bool{}
		return
	}
	marks := make(map[string]bool, len(s.lists[side]))
	for _, st := range s.lists[side] {
		marks[st.ID.String()] = true
	}
	s.selected[side] = marks
}

func (s *Session) SelectedCount(side Side) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected[side])
}

// Transfer moves every selected student from one list to the other as a
// batch and clears the selection marks on both sides.
func (s *Session) Transfer(from Side) {
	s.mu.Lock()
	defer s.mu.Unlock()

	to := from.other()
	var kept []school.Student
	for _, st := range s.lists[from] {
		if s.selected[from][st.ID.String()] {
			s.lists[to] = append(s.lists[to], st)
		} else {
			kept = append(kept, st)
		}
	}
	s.lists[from] = kept
	sortByName(s.lists[to])

	s.selected[SideInGroup] = map[string]bool{}
	s.selected[SideAvailable] = map[string]bool{}
}

// MoveOne transfers a single student, the double-click shortcut. Adding into
// a full class is refused on the spot so the roster count badge never climbs
// past the bound through this path.
func (s *Session) MoveOne(from Side, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if from == SideAvailable && len(s.lists[SideInGroup]) >= s.capacity {
		return ErrAtCapacity
	}

	to := from.other()
	for i, st := range s.lists[from] {
		if st.ID.String() == studentID {
			s.lists[from] = append(s.lists[from][:i], s.lists[from][i+1:]...)
			s.lists[to] = append(s.lists[to], st)
			sortByName(s.lists[to])
			delete(s.selected[from], studentID)
			return nil
		}
	}
	return ErrNotInList
}

// Commit validates the capacity bound locally, then sends the full in-group
// id list as the new authoritative membership. An over-capacity roster is
// rejected before any backend call.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	if len(s.lists[SideInGroup]) > s.capacity {
		s.mu.Unlock()
		return ErrOverCapacity
	}
	groupID := s.groupID
	ids := make([]string, 0, len(s.lists[SideInGroup]))
	for _, st := range s.lists[SideInGroup] {
		ids = append(ids, st.ID.String())
	}
	s.mu.Unlock()

	return s.svc.SetGroupMembership(ctx, groupID, ids)
}

// Cancel discards all local transfers, restoring the loaded membership.
// No backend call is made.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[SideInGroup] = append([]school.Student(nil), s.loaded.InGroup...)
	s.lists[SideAvailable] = append([]school.Student(nil), s.loaded.Available...)
	s.selected[SideInGroup] = map[string]bool{}
	s.selected[SideAvailable] = map[string]bool{}
}

func (s *Session) list(side Side) []school.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]school.Student(nil), s.lists[side]...)
}

func sortByName(students []school.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].GivenName != students[j].GivenName {
			return students[i].GivenName < students[j].GivenName
		}
		return students[i].FamilyName < students[j].FamilyName
	})
}
