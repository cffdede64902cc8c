package dummyapi

import (
	"context"
	"net/http"

	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/roster"
)

type rosterService struct {
	db *DB
}

var _ roster.Service = (*rosterService)(nil) // interface compliance check

func NewRosterService(db *DB) roster.Service {
	return &rosterService{db: db}
}

func (s *rosterService) GetGroupMembership(ctx context.Context, groupID string) (roster.Membership, error) {
	if err := s.db.begin(); err != nil {
		return roster.Membership{}, err
	}
	if err := ctx.Err(); err != nil {
		return roster.Membership{}, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	class, ok := s.db.classes[groupID]
	if !ok {
		return roster.Membership{}, &core.APIError{Status: http.StatusNotFound, Message: "class not found"}
	}

	members := make(map[string]bool, len(s.db.rosters[groupID]))
	for _, id := range s.db.rosters[groupID] {
		members[id] = true
	}
	placed := make(map[string]bool)
	for _, ids := range s.db.rosters {
		for _, id := range ids {
			placed[id] = true
		}
	}

	var membership roster.Membership
	membership.Capacity = s.db.settings.DefaultCapacity
	for _, st := range s.db.students {
		switch {
		case members[st.ID.String()]:
			membership.InGroup = append(membership.InGroup, *st)
		case !placed[st.ID.String()] && st.AdmissionYearID == class.YearID:
			membership.Available = append(membership.Available, *st)
		}
	}
	sortStudents(membership.InGroup)
	sortStudents(membership.Available)
	return membership, nil
}

func (s *rosterService) SetGroupMembership(ctx context.Context, groupID string, memberIDs []string) error {
	if err := s.db.begin(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	class, ok := s.db.classes[groupID]
	if !ok {
		return &core.APIError{Status: http.StatusNotFound, Message: "class not found"}
	}
	for _, id := range memberIDs {
		if _, ok := s.db.students[id]; !ok {
			return &core.APIError{Status: http.StatusBadRequest, Message: "unknown student " + id}
		}
	}

	s.db.rosters[groupID] = append([]string(nil), memberIDs...)
	class.Size = len(memberIDs)
	for _, id := range memberIDs {
		s.db.students[id].Deletable = false
	}
	return nil
}
