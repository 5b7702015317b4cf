package local

import (
	"context"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	return s.users.Get(id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(username)
}

func (s *Store) CreateUser(ctx context.Context, user models.NewUser) (*models.User, error) {
	return s.users.Create(user)
}

func (s *Store) UpdateUser(ctx context.Context, id int, username, password string) (*models.User, error) {
	return s.users.Update(id, username, password)
}

func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	return s.settings.Get(key)
}

func (s *Store) SetSetting(ctx context.Context, key, value string) {
	s.settings.Set(key, value)
}

// UpdateNotionSettings records the credentials. They take effect for the
// remote store on the next start.
func (s *Store) UpdateNotionSettings(ctx context.Context, token, databaseID string) error {
	s.settings.Set(common.SettingNotionAPIToken, token)
	s.settings.Set(common.SettingNotionDatabaseID, databaseID)
	return nil
}
