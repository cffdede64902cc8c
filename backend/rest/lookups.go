package restapi

import (
	"context"
	"net/url"

	"github.com/tdkhoa/sodiem/core/school"
)

// LookupAPI serves the dropdown populations: school years, grade levels,
// terms, subjects, and the classes of one school year.
type LookupAPI struct {
	c *Client
}

func (c *Client) Lookups() *LookupAPI { return &LookupAPI{c: c} }

func (api *LookupAPI) Years(ctx context.Context) ([]school.SchoolYear, error) {
	var years []school.SchoolYear
	if err := api.c.get(ctx, "/api/students/filters/nienkhoa/", nil, &years); err != nil {
		return nil, err
	}
	return years, nil
}

func (api *LookupAPI) Grades(ctx context.Context) ([]school.GradeLevel, error) {
	var grades []school.GradeLevel
	if err := api.c.get(ctx, "/api/students/filters/khoi/", nil, &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

func (api *LookupAPI) Terms(ctx context.Context) ([]school.Term, error) {
	var terms []school.Term
	if err := api.c.get(ctx, "/api/grading/hocky-list/", nil, &terms); err != nil {
		return nil, err
	}
	return terms, nil
}

func (api *LookupAPI) Subjects(ctx context.Context) ([]school.Subject, error) {
	var subjects []school.Subject
	if err := api.c.get(ctx, "/api/subjects/monhoc-list/", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (api *LookupAPI) ClassesForYear(ctx context.Context, yearID string) ([]school.Class, error) {
	query := url.Values{}
	query.Set("nienkhoa_id", yearID)

	var classes []school.Class
	if err := api.c.get(ctx, "/api/classes/lophoc-list/", query, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}
