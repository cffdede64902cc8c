package score

import (
	"context"
	"errors"
	"sync"

	"github.com/volatiletech/null/v8"

	"github.com/tdkhoa/sodiem/core"
)

var (
	// errors
	ErrNotEditing   = errors.New("the sheet is not in edit mode")
	ErrRowNotFound  = errors.New("student not on this sheet")
	ErrInvalidScore = errors.New("a score is outside the 0-10 range")
)

// Field selects one of the two score slots on a row.
type Field int

const (
	FieldQuiz Field = iota // 15-minute quiz
	FieldTest              // full-period test
)

// SheetKey is the (year, class, subject, term) tuple one grade sheet covers.
type SheetKey struct {
	YearID    string
	ClassID   string
	SubjectID string
	TermID    string
}

// Row holds one student's scores in display form.
type Row struct {
	StudentID string
	FullName  string
	Quiz      string
	Test      string
}

// Average derives the row's weighted average display value.
func (r Row) Average() string {
	return WeightedAverage(ToNumeric(r.Quiz), ToNumeric(r.Test))
}

// Result classifies the row against the pass threshold.
func (r Row) Result(threshold float64) Result {
	return Classify(r.Average(), threshold)
}

// GradingService is the backend collaborator for grade sheets.
type GradingService interface {
	FetchSheet(ctx context.Context, key SheetKey) ([]Row, error)
	SaveScore(ctx context.Context, key SheetKey, studentID string, quiz, test null.Float64) error
}

// Sheet is the edit session for one grade sheet. Scores are mutable only
// while edit mode is active; staged keystrokes go through the normalizer and
// are persisted as a batch on Commit or reverted to the last committed values
// on Cancel.
type Sheet struct {
	svc GradingService
	log core.Logger

	mu        sync.Mutex
	key       SheetKey
	rows      []Row
	committed []Row
	editing   bool
}

func NewSheet(svc GradingService, log core.Logger) *Sheet {
	if log == nil {
		log = core.NopLogger()
	}
	return &Sheet{svc: svc, log: log}
}

// Load fetches the sheet for the given key and resets the session.
func (s *Sheet) Load(ctx context.Context, key SheetKey) error {
	rows, err := s.svc.FetchSheet(ctx, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.rows = append([]Row(nil), rows...)
	s.committed = append([]Row(nil), rows...)
	s.editing = false
	return nil
}

func (s *Sheet) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}

func (s *Sheet) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// Begin enables edit mode.
func (s *Sheet) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = true
}

// Input feeds one keystroke's worth of raw input into a score slot.
func (s *Sheet) Input(studentID string, field Field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing {
		return ErrNotEditing
	}
	i := s.index(studentID)
	if i < 0 {
		return ErrRowNotFound
	}
	switch field {
	case FieldQuiz:
		s.rows[i].Quiz = NormalizeKeystroke(s.rows[i].Quiz, raw)
	case FieldTest:
		s.rows[i].Test = NormalizeKeystroke(s.rows[i].Test, raw)
	}
	return nil
}

// Blur pads the slot's display value to the committed two-decimal form.
func (s *Sheet) Blur(studentID string, field Field) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.editing {
		return ErrNotEditing
	}
	i := s.index(studentID)
	if i < 0 {
		return ErrRowNotFound
	}
	switch field {
	case FieldQuiz:
		s.rows[i].Quiz = PadCommit(s.rows[i].Quiz)
	case FieldTest:
		s.rows[i].Test = PadCommit(s.rows[i].Test)
	}
	return nil
}

// Cancel discards all staged edits, reverting to the last committed values.
func (s *Sheet) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]Row(nil), s.committed...)
	s.editing = false
}

// Commit validates every staged score locally, then persists the whole sheet
// and replaces it with the authoritative server rows. An out-of-range score
// is a local validation failure: no backend call is made and the session
// stays in edit mode. A backend failure also leaves the session editing with
// the staged values intact.
func (s *Sheet) Commit(ctx context.Context) error {
	s.mu.Lock()
	if !s.editing {
		s.mu.Unlock()
		return ErrNotEditing
	}

	for i := range s.rows {
		s.rows[i].Quiz = PadCommit(s.rows[i].Quiz)
		s.rows[i].Test = PadCommit(s.rows[i].Test)
	}
	for _, row := range s.rows {
		if !IsValid(row.Quiz) || !IsValid(row.Test) {
			s.mu.Unlock()
			return core.NewValidationError(ErrInvalidScore, core.FieldError{
				Field: row.StudentID,
				Error: ErrInvalidScore.Error(),
			})
		}
	}

	key := s.key
	rows := append([]Row(nil), s.rows...)
	s.mu.Unlock()

	for _, row := range rows {
		if err := s.svc.SaveScore(ctx, key, row.StudentID, ToNumeric(row.Quiz), ToNumeric(row.Test)); err != nil {
			s.log.Error("score save failed", err, map[string]interface{}{"student": row.StudentID})
			return err
		}
	}

	// Re-read so the sheet shows server truth, not the staged values.
	fresh, err := s.svc.FetchSheet(ctx, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]Row(nil), fresh...)
	s.committed = append([]Row(nil), fresh...)
	s.editing = false
	return nil
}

func (s *Sheet) index(studentID string) int {
	for i, row := range s.rows {
		if row.StudentID == studentID {
			return i
		}
	}
	return -1
}
