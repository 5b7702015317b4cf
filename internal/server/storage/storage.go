// Package storage defines the contract every prompt store satisfies and picks
// the implementation to use at startup.
package storage

import (
	"context"

	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

// Storage is implemented by the local flat-file store and the Notion-backed
// store.
//
// Lookups by id report an unknown id with common.ErrorNotFound. Boolean
// operations return false for unknown ids and for backend failures. Prompt
// content is always returned whole, however it is stored.
type Storage interface {
	// Name identifies the backend in logs and health output.
	Name() string

	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser assigns the next sequential id. A taken username yields
	// common.ErrorAlreadyExists.
	CreateUser(ctx context.Context, user models.NewUser) (*models.User, error)
	UpdateUser(ctx context.Context, id int, username, password string) (*models.User, error)

	// GetPrompts returns all active prompts. Backend failures yield an empty
	// list.
	GetPrompts(ctx context.Context) []*models.Prompt
	GetPrompt(ctx context.Context, id int) (*models.Prompt, error)
	CreatePrompt(ctx context.Context, prompt models.NewPrompt) (*models.Prompt, error)
	// UpdatePrompt merges the supplied fields into the stored prompt.
	UpdatePrompt(ctx context.Context, id int, patch models.PromptPatch) (*models.Prompt, error)
	// DeletePrompt removes a prompt from the active set without trashing it.
	DeletePrompt(ctx context.Context, id int) bool

	MoveToTrash(ctx context.Context, id int) bool
	RestoreFromTrash(ctx context.Context, deletedID int) bool
	DeleteFromTrash(ctx context.Context, deletedID int) bool
	EmptyTrash(ctx context.Context) bool
	GetDeletedPrompts(ctx context.Context) []*models.DeletedPrompt

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string)
	// UpdateNotionSettings rotates the remote credentials. The local store
	// only records them.
	UpdateNotionSettings(ctx context.Context, token, databaseID string) error
}
