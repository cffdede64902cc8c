package dummyapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/school"
)

type studentBackend struct {
	db *DB
}

var _ listsync.Backend[school.Student] = (*studentBackend)(nil) // interface compliance check

func NewStudentBackend(db *DB) listsync.Backend[school.Student] {
	return &studentBackend{db: db}
}

func (b *studentBackend) List(ctx context.Context, filters listsync.FilterSet) ([]school.Student, error) {
	if err := b.db.begin(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.db.mu.RLock()
	defer b.db.mu.RUnlock()

	search := strings.ToLower(filters.Get("search"))
	yearID := filters.Get("nien_khoa_id")
	gradeID := filters.Get("khoi_id")

	students := make([]school.Student, 0, len(b.db.students))
	for _, st := range b.db.students {
		if yearID != "" && st.AdmissionYearID.String() != yearID {
			continue
		}
		if gradeID != "" && st.ExpectedGradeID.String() != gradeID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(st.FullName()), search) &&
			!strings.Contains(strings.ToLower(st.Email.String), search) {
			continue
		}
		students = append(students, *st)
	}
	sortStudents(students)
	return students, nil
}

func (b *studentBackend) Create(ctx context.Context, record school.Student) (school.Student, error) {
	if err := b.db.begin(); err != nil {
		return school.Student{}, err
	}
	if err := ctx.Err(); err != nil {
		return school.Student{}, err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	record.ID = b.db.nextID()
	record.Deletable = true
	b.db.students[record.ID.String()] = &record
	return record, nil
}

func (b *studentBackend) Update(ctx context.Context, id string, record school.Student) (school.Student, error) {
	if err := b.db.begin(); err != nil {
		return school.Student{}, err
	}
	if err := ctx.Err(); err != nil {
		return school.Student{}, err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	orig, ok := b.db.students[id]
	if !ok {
		return school.Student{}, &core.APIError{Status: http.StatusNotFound, Message: "student not found"}
	}
	record.ID = orig.ID
	record.Deletable = orig.Deletable
	b.db.students[id] = &record
	return record, nil
}

func (b *studentBackend) Delete(ctx context.Context, id string) error {
	if err := b.db.begin(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	st, ok := b.db.students[id]
	if !ok {
		return &core.APIError{Status: http.StatusNotFound, Message: "student not found"}
	}
	if !st.Deletable {
		return &core.APIError{Status: http.StatusBadRequest, Message: "student already placed in a class"}
	}
	delete(b.db.students, id)
	return nil
}

func sortStudents(students []school.Student) {
	sort.Slice(students, func(i, j int) bool {
		a, _ := strconv.Atoi(students[i].ID.String())
		b, _ := strconv.Atoi(students[j].ID.String())
		return a < b
	})
}
