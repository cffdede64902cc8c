package dummyapi

import (
	"context"
	"net/http"
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/score"
)

type gradingService struct {
	db *DB
}

var _ score.GradingService = (*gradingService)(nil) // interface compliance check

func NewGradingService(db *DB) score.GradingService {
	return &gradingService{db: db}
}

func (s *gradingService) FetchSheet(ctx context.Context, key score.SheetKey) ([]score.Row, error) {
	if err := s.db.begin(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if _, ok := s.db.classes[key.ClassID]; !ok {
		return nil, &core.APIError{Status: http.StatusNotFound, Message: "class not found"}
	}

	var rows []score.Row
	for _, studentID := range s.db.rosters[key.ClassID] {
		st, ok := s.db.students[studentID]
		if !ok {
			continue
		}
		row := score.Row{StudentID: studentID, FullName: st.FullName()}
		if saved, ok := s.db.scores[scoreKey{key.ClassID, key.SubjectID, key.TermID, studentID}]; ok {
			row.Quiz = saved.Quiz
			row.Test = saved.Test
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].FullName < rows[j].FullName })
	return rows, nil
}

func (s *gradingService) SaveScore(ctx context.Context, key score.SheetKey, studentID string, quiz, test null.Float64) error {
	if err := s.db.begin(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	st, ok := s.db.students[studentID]
	if !ok {
		return &core.APIError{Status: http.StatusNotFound, Message: "student not found"}
	}

	row := score.Row{StudentID: studentID, FullName: st.FullName()}
	if quiz.Valid {
		row.Quiz = score.FormatScore(quiz.Float64)
	}
	if test.Valid {
		row.Test = score.FormatScore(test.Float64)
	}
	s.db.scores[scoreKey{key.ClassID, key.SubjectID, key.TermID, studentID}] = row
	return nil
}
