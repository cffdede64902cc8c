package restapi

import (
	"context"
	"net/url"

	"github.com/volatiletech/null/v8"

	"github.com/tdkhoa/sodiem/core/school"
	"github.com/tdkhoa/sodiem/core/score"
)

type GradingAPI struct {
	c *Client
}

var _ score.GradingService = (*GradingAPI)(nil) // interface compliance check

type sheetRow struct {
	ID       school.ID    `json:"id"`
	FullName string       `json:"HoTen"`
	Quiz     null.Float64 `json:"Diem15"`
	Test     null.Float64 `json:"Diem1Tiet"`
}

func (api *GradingAPI) FetchSheet(ctx context.Context, key score.SheetKey) ([]score.Row, error) {
	query := url.Values{}
	query.Set("IDNienKhoa", key.YearID)
	query.Set("IDLopHoc", key.ClassID)
	query.Set("IDMonHoc", key.SubjectID)
	query.Set("IDHocKy", key.TermID)

	var wire []sheetRow
	if err := api.c.get(ctx, "/api/grading/diemso/", query, &wire); err != nil {
		return nil, err
	}

	rows := make([]score.Row, len(wire))
	for i, w := range wire {
		rows[i] = score.Row{
			StudentID: w.ID.String(),
			FullName:  w.FullName,
			Quiz:      displayScore(w.Quiz),
			Test:      displayScore(w.Test),
		}
	}
	return rows, nil
}

func (api *GradingAPI) SaveScore(ctx context.Context, key score.SheetKey, studentID string, quiz, test null.Float64) error {
	payload := struct {
		StudentID school.ID    `json:"IDHocSinh"`
		ClassID   school.ID    `json:"IDLopHoc"`
		SubjectID school.ID    `json:"IDMonHoc"`
		TermID    school.ID    `json:"IDHocKy"`
		Quiz      null.Float64 `json:"Diem15"`
		Test      null.Float64 `json:"Diem1Tiet"`
	}{
		StudentID: school.ID(studentID),
		ClassID:   school.ID(key.ClassID),
		SubjectID: school.ID(key.SubjectID),
		TermID:    school.ID(key.TermID),
		Quiz:      quiz,
		Test:      test,
	}
	return api.c.post(ctx, "/api/grading/diemso/cap-nhat/", payload, nil)
}

func displayScore(v null.Float64) string {
	if !v.Valid {
		return ""
	}
	return score.FormatScore(v.Float64)
}
