package notionstore

import (
	"context"

	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

// Accounts are process-local and are never written to Notion.

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
