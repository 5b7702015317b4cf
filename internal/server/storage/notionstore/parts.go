package notionstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/promptvault/internal/server/chunker"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
	"github.com/dmitrijs2005/promptvault/internal/server/notion"
)

var errPartsMismatch = errors.New("content parts do not match part count")

// partCache keeps the overflow segments of prompts by integer id, along with
// the generation they belong to. It is an optimisation only: a miss always
// reloads the parts from Notion.
type partCache struct {
	mu    sync.RWMutex
	parts map[int]cachedParts
}

type cachedParts struct {
	generation int
	parts      []string
}

func newPartCache() *partCache {
	return &partCache{parts: make(map[int]cachedParts)}
}

// Get returns the cached parts of id if they belong to generation.
func (c *partCache) Get(id, generation int) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.parts[id]
	if !ok || e.generation != generation {
		return nil, false
	}
	return e.parts, true
}

func (c *partCache) Set(id, generation int, parts []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts[id] = cachedParts{generation: generation, parts: slices.Clone(parts)}
}

func (c *partCache) Delete(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.parts, id)
}

func (c *partCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parts = make(map[int]cachedParts)
}

// assemble turns a prompt page into a Prompt with its full content.
func (s *Store) assemble(ctx context.Context, client notion.Client, page notion.Page) (*models.Prompt, error) {
	id := s.ids.Assign(page.ID)
	p := &models.Prompt{
		ID:        id,
		Title:     page.Title,
		Content:   page.Content,
		Category:  page.Category,
		Tags:      slices.Clone(page.Tags),
		CreatedAt: page.CreatedAt,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if page.PartCount <= 0 {
		s.parts.Delete(id)
		return p, nil
	}

	parts, err := s.loadParts(ctx, client, id, page)
	if err != nil {
		return nil, err
	}
	p.Content = chunker.Join(page.Content, parts)
	return p, nil
}

// loadParts returns the overflow segments of page. Only part pages of the
// page's generation count. Older ones are leftovers of an update whose cleanup
// failed and are archived again here; newer ones belong to an update still in
// flight, or one that failed, and are left alone.
func (s *Store) loadParts(ctx context.Context, client notion.Client, id int, page notion.Page) ([]string, error) {
	if cached, ok := s.parts.Get(id, page.Generation); ok && len(cached) == page.PartCount {
		return cached, nil
	}

	pages, err := client.Query(ctx, notion.Query{ParentID: page.ID, SortByPartIndex: true})
	if err != nil {
		return nil, fmt.Errorf("query parts of %s: %w", page.ID, err)
	}

	var live []notion.Page
	var stale []string
	for _, part := range pages {
		switch {
		case part.Generation == page.Generation:
			live = append(live, part)
		case part.Generation < page.Generation:
			stale = append(stale, part.ID)
		}
	}
	if len(stale) > 0 {
		s.logger.Warn(ctx, "archiving leftover content parts", "id", id, "page_id", page.ID, "parts", len(stale))
		s.archivePages(ctx, client, stale)
	}
	sort.SliceStable(live, func(i, j int) bool { return live[i].PartIndex < live[j].PartIndex })

	parts := make([]string, 0, len(live))
	for i, part := range live {
		if part.PartIndex != i+1 {
			return nil, fmt.Errorf("%w: page %s has part %d at position %d", errPartsMismatch, page.ID, part.PartIndex, i+1)
		}
		parts = append(parts, part.Content)
	}
	if len(parts) != page.PartCount {
		return nil, fmt.Errorf("%w: page %s expects %d, found %d", errPartsMismatch, page.ID, page.PartCount, len(parts))
	}

	s.logger.Debug(ctx, "content parts reloaded", "id", id, "page_id", page.ID, "parts", page.PartCount)
	s.parts.Set(id, page.Generation, parts)
	return parts, nil
}

// writeParts creates one page per overflow segment, all tagged with
// generation. On failure the pages created so far are archived again and the
// error is returned.
func (s *Store) writeParts(ctx context.Context, client notion.Client, parentID, title string, generation int, parts []string) ([]string, error) {
	created := make([]string, 0, len(parts))
	for i, content := range parts {
		index := i + 1
		partTitle := partTitle(title, index)
		page, err := client.CreatePage(ctx, notion.Fields{
			Title:      &partTitle,
			Content:    &content,
			PartIndex:  &index,
			ParentID:   &parentID,
			Generation: &generation,
		})
		if err != nil {
			s.archivePages(ctx, client, created)
			return nil, fmt.Errorf("create part %d of %s: %w", index, parentID, err)
		}
		created = append(created, page.ID)
	}
	return created, nil
}

// archivePages archives each page, logging failures.
func (s *Store) archivePages(ctx context.Context, client notion.Client, ids []string) {
	for _, id := range ids {
		if err := client.ArchivePage(ctx, id); err != nil {
			s.logger.Error(ctx, "archive page", "page_id", id, "error", err)
		}
	}
}

// partPageIDs lists the ids of the part pages currently attached to pageID.
func partPageIDs(ctx context.Context, client notion.Client, pageID string) ([]string, error) {
	pages, err := client.Query(ctx, notion.Query{ParentID: pageID})
	if err != nil {
		return nil, err
	}
	return pageIDs(pages), nil
}

func pageIDs(pages []notion.Page) []string {
	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		ids = append(ids, p.ID)
	}
	return ids
}

// nextGeneration picks a generation no existing part of page carries, so
// leftovers of a failed update can never pass for the new content.
func nextGeneration(page notion.Page, parts []notion.Page) int {
	g := page.Generation
	for _, p := range parts {
		g = max(g, p.Generation)
	}
	return g + 1
}

func partTitle(title string, index int) string {
	return chunker.Truncate(title, maxPartTitleLength) + " - Part " + strconv.Itoa(index)
}
