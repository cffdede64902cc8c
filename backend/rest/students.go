package restapi

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/school"
)

type StudentAPI struct {
	c *Client
}

var _ listsync.Backend[school.Student] = (*StudentAPI)(nil) // interface compliance check

// studentPayload is the fields the backend accepts on create/update; the id
// and the server-computed fields stay out.
type studentPayload struct {
	FamilyName      string      `json:"Ho"`
	GivenName       string      `json:"Ten"`
	Gender          string      `json:"GioiTinh"`
	BirthDate       time.Time   `json:"NgaySinh"`
	Address         null.String `json:"DiaChi,omitempty"`
	Email           null.String `json:"Email,omitempty"`
	AdmissionYearID school.ID   `json:"IDNienKhoaTiepNhan"`
	ExpectedGradeID school.ID   `json:"KhoiDuKien"`
}

func newStudentPayload(st school.Student) studentPayload {
	return studentPayload{
		FamilyName:      st.FamilyName,
		GivenName:       st.GivenName,
		Gender:          st.Gender,
		BirthDate:       st.BirthDate,
		Address:         st.Address,
		Email:           st.Email,
		AdmissionYearID: st.AdmissionYearID,
		ExpectedGradeID: st.ExpectedGradeID,
	}
}

func (api *StudentAPI) List(ctx context.Context, filters listsync.FilterSet) ([]school.Student, error) {
	var students []school.Student
	if err := api.c.get(ctx, "/api/students/hocsinh/", filters.Values(), &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (api *StudentAPI) Create(ctx context.Context, record school.Student) (school.Student, error) {
	var created school.Student
	if err := api.c.post(ctx, "/api/students/hocsinh/", newStudentPayload(record), &created); err != nil {
		return school.Student{}, err
	}
	return created, nil
}

func (api *StudentAPI) Update(ctx context.Context, id string, record school.Student) (school.Student, error) {
	var updated school.Student
	if err := api.c.patch(ctx, "/api/students/hocsinh/"+id+"/", newStudentPayload(record), &updated); err != nil {
		return school.Student{}, err
	}
	return updated, nil
}

func (api *StudentAPI) Delete(ctx context.Context, id string) error {
	return api.c.delete(ctx, "/api/students/hocsinh/"+id+"/")
}
