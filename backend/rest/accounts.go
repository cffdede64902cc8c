package restapi

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/tdkhoa/sodiem/core/listsync"
	"github.com/tdkhoa/sodiem/core/school"
)

type AccountAPI struct {
	c *Client
}

var _ listsync.Backend[school.Account] = (*AccountAPI)(nil) // interface compliance check

type accountPayload struct {
	FullName string      `json:"HoTen"`
	Email    null.String `json:"Email,omitempty"`
	Role     string      `json:"role"`
	Active   bool        `json:"is_active"`
}

func (api *AccountAPI) List(ctx context.Context, filters listsync.FilterSet) ([]school.Account, error) {
	var accounts []school.Account
	if err := api.c.get(ctx, "/api/accounts/management/", filters.Values(), &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (api *AccountAPI) Create(ctx context.Context, record school.Account) (school.Account, error) {
	payload := struct {
		accountPayload
		Username string `json:"username"`
	}{
		accountPayload: accountPayload{
			FullName: record.FullName,
			Email:    record.Email,
			Role:     record.Role,
			Active:   record.Active,
		},
		Username: record.Username,
	}

	var created school.Account
	if err := api.c.post(ctx, "/api/accounts/management/create/", payload, &created); err != nil {
		return school.Account{}, err
	}
	return created, nil
}

func (api *AccountAPI) Update(ctx context.Context, id string, record school.Account) (school.Account, error) {
	payload := accountPayload{
		FullName: record.FullName,
		Email:    record.Email,
		Role:     record.Role,
		Active:   record.Active,
	}

	var updated school.Account
	if err := api.c.patch(ctx, "/api/accounts/management/"+id+"/update/", payload, &updated); err != nil {
		return school.Account{}, err
	}
	return updated, nil
}

func (api *AccountAPI) Delete(ctx context.Context, id string) error {
	return api.c.delete(ctx, "/api/accounts/management/"+id+"/delete/")
}

// Roles lists the assignable account roles.
func (api *AccountAPI) Roles(ctx context.Context) ([]string, error) {
	var roles []string
	if err := api.c.get(ctx, "/api/accounts/roles/", nil, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}
