package restapi

import (
	"context"

	"github.com/tdkhoa/sodiem/core/roster"
	"github.com/tdkhoa/sodiem/core/school"
)

type RosterAPI struct {
	c *Client
}

var _ roster.Service = (*RosterAPI)(nil) // interface compliance check

func (api *RosterAPI) GetGroupMembership(ctx context.Context, groupID string) (roster.Membership, error) {
	var res struct {
		InGroup   []school.Student `json:"students_in_class"`
		Available []school.Student `json:"students_available"`
		Capacity  int              `json:"siso_toida"`
	}
	if err := api.c.get(ctx, "/api/classes/lophoc/"+groupID+"/hocsinh/", nil, &res); err != nil {
		return roster.Membership{}, err
	}
	return roster.Membership{
		InGroup:   res.InGroup,
		Available: res.Available,
		Capacity:  res.Capacity,
	}, nil
}

func (api *RosterAPI) SetGroupMembership(ctx context.Context, groupID string, memberIDs []string) error {
	ids := make([]school.ID, len(memberIDs))
	for i, id := range memberIDs {
		ids[i] = school.ID(id)
	}
	payload := struct {
		StudentIDs []school.ID `json:"student_ids"`
	}{StudentIDs: ids}

	return api.c.post(ctx, "/api/classes/lophoc/"+groupID+"/hocsinh/", payload, nil)
}
