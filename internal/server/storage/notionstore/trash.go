package notionstore

import (
	"context"

	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

// MoveToTrash reads the whole prompt, archives it in Notion and keeps the
// copy in the in-memory trash.
func (s *Store) MoveToTrash(ctx context.Context, id int) bool {
	p, err := s.GetPrompt(ctx, id)
	if err != nil {
		return false
	}
	if !s.DeletePrompt(ctx, id) {
		return false
	}
	entry := s.trash.Add(p, s.now())
	s.logger.Info(ctx, "prompt moved to trash", "id", id, "trash_id", entry.ID)
	return true
}

// RestoreFromTrash recreates the prompt as a new page, so it gets a new id
// and creation time.
func (s *Store) RestoreFromTrash(ctx context.Context, deletedID int) bool {
	entry, ok := s.trash.Get(deletedID)
	if !ok {
		return false
	}
	p, err := s.CreatePrompt(ctx, entry.AsNewPrompt())
	if err != nil {
		s.logger.Error(ctx, "restore from trash", "trash_id", deletedID, "error", err)
		return false
	}
	s.trash.Remove(deletedID)
	s.logger.Info(ctx, "prompt restored", "trash_id", deletedID, "id", p.ID)
	return true
}

func (s *Store) DeleteFromTrash(ctx context.Context, deletedID int) bool {
	return s.trash.Remove(deletedID)
}

func (s *Store) EmptyTrash(ctx context.Context) bool {
	s.trash.Clear()
	return true
}

func (s *Store) GetDeletedPrompts(ctx context.Context) []*models.DeletedPrompt {
	return s.trash.List()
}
