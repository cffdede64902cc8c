package dummyapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/tdkhoa/sodiem/core"
	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/school"
)

type classBackend struct {
	db *DB
}

var _ listsync.Backend[school.Class] = (*classBackend)(nil) // interface compliance check

func NewClassBackend(db *DB) listsync.Backend[school.Class] {
	return &classBackend{db: db}
}

func (b *classBackend) List(ctx context.Context, filters listsync.FilterSet) ([]school.Class, error) {
	if err := b.db.begin(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.db.mu.RLock()
	defer b.db.mu.RUnlock()

	yearID := filters.Get("nienkhoa_id")
	gradeID := filters.Get("khoi_id")

	classes := make([]school.Class, 0, len(b.db.classes))
	for _, cl := range b.db.classes {
		if yearID != "" && cl.YearID.String() != yearID {
			continue
		}
		if gradeID != "" && cl.GradeID.String() != gradeID {
			continue
		}
		classes = append(classes, *cl)
	}
	sort.Slice(classes, func(i, j int) bool {
		a, _ := strconv.Atoi(classes[i].ID.String())
		b, _ := strconv.Atoi(classes[j].ID.String())
		return a < b
	})
	return classes, nil
}

func (b *classBackend) Create(ctx context.Context, record school.Class) (school.Class, error) {
	if err := b.db.begin(); err != nil {
		return school.Class{}, err
	}
	if err := ctx.Err(); err != nil {
		return school.Class{}, err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	record.ID = b.db.nextID()
	b.db.classes[record.ID.String()] = &record
	return record, nil
}

func (b *classBackend) Update(ctx context.Context, id string, record school.Class) (school.Class, error) {
	if err := b.db.begin(); err != nil {
		return school.Class{}, err
	}
	if err := ctx.Err(); err != nil {
		return school.Class{}, err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	orig, ok := b.db.classes[id]
	if !ok {
		return school.Class{}, &core.APIError{Status: http.StatusNotFound, Message: "class not found"}
	}
	record.ID = orig.ID
	record.Size = orig.Size
	b.db.classes[id] = &record
	return record, nil
}

func (b *classBackend) Delete(ctx context.Context, id string) error {
	if err := b.db.begin(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	if _, ok := b.db.classes[id]; !ok {
		return &core.APIError{Status: http.StatusNotFound, Message: "class not found"}
	}
	if len(b.db.rosters[id]) > 0 {
		return &core.APIError{Status: http.StatusBadRequest, Message: "class still has students"}
	}
	delete(b.db.classes, id)
	return nil
}
