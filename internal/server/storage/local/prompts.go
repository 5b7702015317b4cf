package local

import (
	"context"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

// GetPrompts returns copies in insertion order.
func (s *Store) GetPrompts(ctx context.Context) []*models.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Prompt, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.prompts[id].Clone())
	}
	return out
}

func (s *Store) GetPrompt(ctx context.Context, id int) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prompts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return p.Clone(), nil
}

func (s *Store) CreatePrompt(ctx context.Context, np models.NewPrompt) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.Prompt{
		ID:        s.next,
		Title:     np.Title,
		Content:   np.Content,
		Category:  np.Category,
		Tags:      np.Tags,
		CreatedAt: s.now(),
	}
	p = p.Clone()
	s.insertLocked(p)
	s.saveLocked(ctx)

	s.logger.Debug(ctx, "prompt created", "id", p.ID)
	return p.Clone(), nil
}

func (s *Store) UpdatePrompt(ctx context.Context, id int, patch models.PromptPatch) (*models.Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.prompts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	updated := patch.Apply(existing)
	s.prompts[id] = updated
	s.saveLocked(ctx)

	return updated.Clone(), nil
}

func (s *Store) DeletePrompt(ctx context.Context, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeLocked(id) {
		return false
	}
	s.saveLocked(ctx)
	return true
}
