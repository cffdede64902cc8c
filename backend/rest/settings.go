package restapi

import (
	"context"

	"github.com/tdkhoa/sodiem/core/school"
)

type SettingsAPI struct {
	c *Client
}

var _ school.SettingsService = (*SettingsAPI)(nil) // interface compliance check

func (api *SettingsAPI) Latest(ctx context.Context) (school.Settings, error) {
	var settings school.Settings
	if err := api.c.get(ctx, "/api/configurations/quydinh/latest/", nil, &settings); err != nil {
		return school.Settings{}, err
	}
	return settings, nil
}
