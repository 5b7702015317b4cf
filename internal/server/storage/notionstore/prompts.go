package notionstore

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/server/chunker"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
	"github.com/dmitrijs2005/promptvault/internal/server/notion"
	"golang.org/x/sync/errgroup"
)

// GetPrompts lists top-level pages and reassembles each one, a few at a time.
// Prompts whose parts cannot be loaded are left out rather than returned
// truncated.
func (s *Store) GetPrompts(ctx context.Context) []*models.Prompt {
	client := s.currentClient()

	pages, err := client.Query(ctx, notion.Query{TopLevel: true})
	if err != nil {
		s.logger.Error(ctx, "query prompts", "error", err)
		return []*models.Prompt{}
	}

	results := make([]*models.Prompt, len(pages))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, page := range pages {
		if page.Archived || notion.IsPageID(page.ParentID) {
			continue
		}
		g.Go(func() error {
			p, err := s.assemble(ctx, client, page)
			if err != nil {
				s.logger.Error(ctx, "reassemble prompt", "page_id", page.ID, "error", err)
				return nil
			}
			results[i] = p
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*models.Prompt, 0, len(results))
	for _, p := range results {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) GetPrompt(ctx context.Context, id int) (*models.Prompt, error) {
	_, p, err := s.fetch(ctx, s.currentClient(), id)
	return p, err
}

// fetch loads the prompt page of id and reassembles it. Every failure is
// reported as common.ErrorNotFound.
func (s *Store) fetch(ctx context.Context, client notion.Client, id int) (notion.Page, *models.Prompt, error) {
	pageID, ok := s.ids.LookupNative(id)
	if !ok {
		return notion.Page{}, nil, common.ErrorNotFound
	}

	page, err := client.RetrievePage(ctx, pageID)
	if err != nil {
		s.logger.Error(ctx, "retrieve prompt", "id", id, "page_id", pageID, "error", err)
		return notion.Page{}, nil, common.ErrorNotFound
	}
	if page.Archived {
		return notion.Page{}, nil, common.ErrorNotFound
	}

	p, err := s.assemble(ctx, client, page)
	if err != nil {
		s.logger.Error(ctx, "reassemble prompt", "id", id, "page_id", pageID, "error", err)
		return notion.Page{}, nil, common.ErrorNotFound
	}
	return page, p, nil
}

// CreatePrompt writes the prompt page and then its part pages. If any part
// fails, everything written is archived and common.ErrorCreateFailed is
// returned. The result carries the full title and content.
func (s *Store) CreatePrompt(ctx context.Context, np models.NewPrompt) (*models.Prompt, error) {
	client := s.currentClient()

	main, overflow, err := chunker.Split(np.Content, s.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorCreateFailed, err)
	}

	title := chunker.Truncate(np.Title, maxTitleLength)
	tags := slices.Clone(np.Tags)
	if tags == nil {
		tags = []string{}
	}
	now := s.now()
	count := len(overflow)
	generation := firstGeneration

	page, err := client.CreatePage(ctx, notion.Fields{
		Title:      &title,
		Content:    &main,
		Category:   &np.Category,
		Tags:       &tags,
		CreatedAt:  &now,
		PartCount:  &count,
		Generation: &generation,
	})
	if err != nil {
		s.logger.Error(ctx, "create prompt page", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrorCreateFailed, err)
	}

	if _, err := s.writeParts(ctx, client, page.ID, np.Title, generation, overflow); err != nil {
		s.logger.Error(ctx, "create prompt parts", "page_id", page.ID, "error", err)
		s.archivePages(ctx, client, []string{page.ID})
		return nil, fmt.Errorf("%w: %v", common.ErrorCreateFailed, err)
	}

	id := s.ids.Assign(page.ID)
	if count > 0 {
		s.parts.Set(id, generation, overflow)
	}
	s.logger.Info(ctx, "prompt created", "id", id, "page_id", page.ID, "parts", count)

	return &models.Prompt{
		ID:        id,
		Title:     np.Title,
		Content:   np.Content,
		Category:  np.Category,
		Tags:      tags,
		CreatedAt: now,
	}, nil
}

// UpdatePrompt applies patch. New content is staged first: the new part pages
// are created under the next generation, then the prompt page is switched to
// that generation, and only then are the old part pages archived. A failure
// before the prompt page changes leaves the stored prompt as it was; a failure
// after it leaves old parts that readers ignore and archive later.
func (s *Store) UpdatePrompt(ctx context.Context, id int, patch models.PromptPatch) (*models.Prompt, error) {
	client := s.currentClient()
	page, existing, err := s.fetch(ctx, client, id)
	if err != nil {
		return nil, err
	}
	updated := patch.Apply(existing)
	if patch.IsEmpty() {
		return updated, nil
	}

	pageID := page.ID
	fields := notion.Fields{Category: patch.Category, Tags: patch.Tags}
	if patch.Title != nil {
		title := chunker.Truncate(*patch.Title, maxTitleLength)
		fields.Title = &title
	}

	var stale, staged, overflow []string
	var generation int
	if patch.Content != nil {
		var main string
		main, overflow, err = chunker.Split(*patch.Content, s.chunkSize)
		if err != nil {
			return nil, err
		}
		var old []notion.Page
		old, err = client.Query(ctx, notion.Query{ParentID: pageID})
		if err != nil {
			s.logger.Error(ctx, "list old parts", "id", id, "page_id", pageID, "error", err)
			return nil, common.ErrorNotFound
		}
		stale, generation = pageIDs(old), nextGeneration(page, old)
		staged, err = s.writeParts(ctx, client, pageID, updated.Title, generation, overflow)
		if err != nil {
			s.logger.Error(ctx, "stage new parts", "id", id, "page_id", pageID, "error", err)
			return nil, common.ErrorNotFound
		}
		count := len(overflow)
		fields.Content = &main
		fields.PartCount = &count
		fields.Generation = &generation
	}

	if _, err := client.UpdatePage(ctx, pageID, fields); err != nil {
		s.logger.Error(ctx, "update prompt page", "id", id, "page_id", pageID, "error", err)
		s.archivePages(ctx, client, staged)
		return nil, common.ErrorNotFound
	}

	if patch.Content != nil {
		s.archivePages(ctx, client, stale)
		if len(overflow) > 0 {
			s.parts.Set(id, generation, overflow)
		} else {
			s.parts.Delete(id)
		}
	}

	s.logger.Info(ctx, "prompt updated", "id", id, "page_id", pageID)
	return updated, nil
}

// DeletePrompt archives the prompt page and its part pages and forgets the
// integer id.
func (s *Store) DeletePrompt(ctx context.Context, id int) bool {
	pageID, ok := s.ids.LookupNative(id)
	if !ok {
		return false
	}
	client := s.currentClient()

	if err := client.ArchivePage(ctx, pageID); err != nil {
		s.logger.Error(ctx, "archive prompt", "id", id, "page_id", pageID, "error", err)
		return false
	}

	parts, err := partPageIDs(ctx, client, pageID)
	if err != nil {
		s.logger.Error(ctx, "list parts of deleted prompt", "id", id, "page_id", pageID, "error", err)
	}
	s.archivePages(ctx, client, parts)

	s.ids.Remove(id)
	s.parts.Delete(id)
	return true
}
