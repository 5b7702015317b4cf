package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/storage"
)

type SettingsService struct {
	store  storage.Storage
	logger logging.Logger
}

func NewSettingsService(store storage.Storage, logger logging.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger.With("module", "settings_service")}
}

// secretSettings are never handed out in full.
var secretSettings = map[string]bool{
	common.SettingNotionAPIToken: true,
}

// Get returns a setting value. Credentials come back masked down to their
// last few characters.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	v, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	if secretSettings[key] {
		return maskSecret(v), nil
	}
	return v, nil
}

func maskSecret(v string) string {
	const visible = 4
	if len(v) <= 2*visible {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-visible) + v[len(v)-visible:]
}

func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is required", common.ErrorValidation)
	}
	s.store.SetSetting(ctx, key, value)
	return nil
}

// UpdateNotionSettings hands new remote credentials to the active store.
func (s *SettingsService) UpdateNotionSettings(ctx context.Context, token, databaseID string) error {
	token = strings.TrimSpace(token)
	databaseID = strings.TrimSpace(databaseID)
	if token == "" || databaseID == "" {
		return fmt.Errorf("%w: token and database id are required", common.ErrorValidation)
	}
	if err := s.store.UpdateNotionSettings(ctx, token, databaseID); err != nil {
		s.logger.Error(ctx, "update notion settings", "store", s.store.Name(), "error", err)
		return err
	}
	return nil
}
