package local

import (
	"context"

	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

func (s *Store) MoveToTrash(ctx context.Context, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[id]
	if !ok {
		return false
	}
	entry := s.trash.Add(p, s.now())
	s.removeLocked(id)
	s.saveLocked(ctx)

	s.logger.Info(ctx, "prompt moved to trash", "id", id, "trash_id", entry.ID)
	return true
}

// RestoreFromTrash puts the prompt back under its original id and creation
// time. If that id has been taken in the meantime a new one is allocated.
func (s *Store) RestoreFromTrash(ctx context.Context, deletedID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.trash.Get(deletedID)
	if !ok {
		return false
	}

	id := entry.OriginalID
	if _, taken := s.prompts[id]; taken || id <= 0 {
		id = s.next
	}

	np := entry.AsNewPrompt()
	s.insertLocked(&models.Prompt{
		ID:        id,
		Title:     np.Title,
		Content:   np.Content,
		Category:  np.Category,
		Tags:      np.Tags,
		CreatedAt: entry.CreatedAt,
	})
	s.trash.Remove(deletedID)
	s.saveLocked(ctx)

	s.logger.Info(ctx, "prompt restored", "trash_id", deletedID, "id", id)
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
