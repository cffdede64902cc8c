package restapi

import (
	"context"

	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/school"
)

type ClassAPI struct {
	c *Client
}

var _ listsync.Backend[school.Class] = (*ClassAPI)(nil) // interface compliance check

type classPayload struct {
	Name    string    `json:"TenLop"`
	YearID  school.ID `json:"IDNienKhoa"`
	GradeID school.ID `json:"IDKhoi"`
}

func newClassPayload(cl school.Class) classPayload {
	return classPayload{Name: cl.Name, YearID: cl.YearID, GradeID: cl.GradeID}
}

func (api *ClassAPI) List(ctx context.Context, filters listsync.FilterSet) ([]school.Class, error) {
	var classes []school.Class
	if err := api.c.get(ctx, "/api/classes/lophoc/", filters.Values(), &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (api *ClassAPI) Create(ctx context.Context, record school.Class) (school.Class, error) {
	var created school.Class
	if err := api.c.post(ctx, "/api/classes/lophoc/", newClassPayload(record), &created); err != nil {
		return school.Class{}, err
	}
	return created, nil
}

func (api *ClassAPI) Update(ctx context.Context, id string, record school.Class) (school.Class, error) {
	var updated school.Class
	if err := api.c.patch(ctx, "/api/classes/lophoc/"+id+"/", newClassPayload(record), &updated); err != nil {
		return school.Class{}, err
	}
	return updated, nil
}

func (api *ClassAPI) Delete(ctx context.Context, id string) error {
	return api.c.delete(ctx, "/api/classes/lophoc/"+id+"/")
}
