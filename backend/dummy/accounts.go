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

type accountBackend struct {
	db *DB
}

var _ listsync.Backend[school.Account] = (*accountBackend)(nil) // interface compliance check

func NewAccountBackend(db *DB) listsync.Backend[school.Account] {
	return &accountBackend{db: db}
}

func (b *accountBackend) List(ctx context.Context, filters listsync.FilterSet) ([]school.Account, error) {
	if err := b.db.begin(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.db.mu.RLock()
	defer b.db.mu.RUnlock()

	search := strings.ToLower(filters.Get("search"))
	role := filters.Get("role")

	accounts := make([]school.Account, 0, len(b.db.accounts))
	for _, acc := range b.db.accounts {
		if role != "" && acc.Role != role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(acc.Username), search) &&
			!strings.Contains(strings.ToLower(acc.FullName), search) {
			continue
		}
		accounts = append(accounts, *acc)
	}
	sort.Slice(accounts, func(i, j int) bool {
		a, _ := strconv.Atoi(accounts[i].ID.String())
		b, _ := strconv.Atoi(accounts[j].ID.String())
		return a < b
	})
	return accounts, nil
}

func (b *accountBackend) Create(ctx context.Context, record school.Account) (school.Account, error) {
	if err := b.db.begin(); err != nil {
		return school.Account{}, err
	}
	if err := ctx.Err(); err != nil {
		return school.Account{}, err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	for _, acc := range b.db.accounts {
		if acc.Username == record.Username {
			return school.Account{}, &core.APIError{
				Status: http.StatusBadRequest,
				Fields: map[string]string{"username": "username already taken"},
			}
		}
	}
	record.ID = b.db.nextID()
	b.db.accounts[record.ID.String()] = &record
	return record, nil
}

func (b *accountBackend) Update(ctx context.Context, id string, record school.Account) (school.Account, error) {
	if err := b.db.begin(); err != nil {
		return school.Account{}, err
	}
	if err := ctx.Err(); err != nil {
		return school.Account{}, err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	orig, ok := b.db.accounts[id]
	if !ok {
		return school.Account{}, &core.APIError{Status: http.StatusNotFound, Message: "account not found"}
	}
	// The username is fixed at creation.
	record.ID = orig.ID
	record.Username = orig.Username
	b.db.accounts[id] = &record
	return record, nil
}

func (b *accountBackend) Delete(ctx context.Context, id string) error {
	if err := b.db.begin(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	if _, ok := b.db.accounts[id]; !ok {
		return &core.APIError{Status: http.StatusNotFound, Message: "account not found"}
	}
	delete(b.db.accounts, id)
	return nil
}
