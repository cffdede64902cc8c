package dummyapi

import (
	"context"

	"github.com/tdkhoa/sodiem/core/school"
)

type settingsService struct {
	db *DB
}

var _ school.SettingsService = (*settingsService)(nil) // interface compliance check

func NewSettingsService(db *DB) school.SettingsService {
	return &settingsService{db: db}
}

func (s *settingsService) Latest(ctx context.Context) (school.Settings, error) {
	if err := s.db.begin(); err != nil {
		return school.Settings{}, err
	}
	if err := ctx.Err(); err != nil {
		return school.Settings{}, err
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.settings, nil
}
