package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/cryptox"
	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/auth"
	"github.com/dmitrijs2005/promptvault/internal/server/config"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
	"github.com/dmitrijs2005/promptvault/internal/server/storage"
)

// UserService provides account operations:
//   - Register: create users with hashed passwords
//   - Login: verify credentials and mint a session token
//   - Authenticate: resolve a session token to its user
//   - UpdateCredentials: change username or password
type UserService struct {
	store     storage.Storage
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    logging.Logger
}

func NewUserService(store storage.Storage, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		store:     store,
		jwtSecret: []byte(cfg.SessionSecret),
		tokenTTL:  cfg.SessionTTL,
		logger:    logger.With("module", "user_service"),
	}
}

// Register creates an account. A taken username yields
// common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "hash password", "error", err)
		return nil, common.ErrorInternal
	}

	u, err := s.store.CreateUser(ctx, models.NewUser{Username: username, Password: hash})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the password and returns a session token with the user.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	u, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if err := s.checkPassword(ctx, u, password); err != nil {
		return "", nil, err
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "generate token", "error", err)
		return "", nil, common.ErrorInternal
	}
	return token, u, nil
}

// Authenticate returns the user a session token belongs to.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	return u, nil
}

// UpdateCredentials changes the username, the password or both after
// checking the current password. Empty new values keep the old ones.
func (s *UserService) UpdateCredentials(ctx context.Context, userID int, currentPassword, newUsername, newPassword string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(ctx, u, currentPassword); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(newUsername)
	if username == "" {
		username = u.Username
	}
	password := u.Password
	if newPassword != "" {
		password, err = cryptox.HashPassword(newPassword)
		if err != nil {
			s.logger.Error(ctx, "hash password", "error", err)
			return nil, common.ErrorInternal
		}
	}

	updated, err := s.store.UpdateUser(ctx, userID, username, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "credentials updated", "user_id", userID)
	return updated, nil
}

func (s *UserService) checkPassword(ctx context.Context, u *models.User, password string) error {
	ok, err := cryptox.ComparePassword(u.Password, password)
	if err != nil {
		s.logger.Error(ctx, "compare password", "user_id", u.ID, "error", err)
		return common.ErrorInternal
	}
	if !ok {
		return common.ErrorInvalidCredentials
	}
	return nil
}
