// Package services contains the server's business logic on top of the
// storage contract: prompt search and validation, accounts and sessions,
// and runtime settings.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/config"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
	"github.com/dmitrijs2005/promptvault/internal/server/storage"
	"github.com/sahilm/fuzzy"
)

const defaultCategory = "other"

// ListFilter narrows a prompt listing. Empty fields match everything.
type ListFilter struct {
	Query    string
	Category string
	Tag      string
}

// Stats summarises the prompt collection.
type Stats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	ByTag      map[string]int `json:"byTag"`
	Trash      int            `json:"trash"`
}

type PromptService struct {
	store  storage.Storage
	cfg    *config.Config
	logger logging.Logger
}

func NewPromptService(store storage.Storage, cfg *config.Config, logger logging.Logger) *PromptService {
	return &PromptService{
		store:  store,
		cfg:    cfg,
		logger: logger.With("module", "prompt_service"),
	}
}

// List returns the prompts matching f. With a query the best matches come
// first: fuzzy matches on title and tags, then plain content matches.
// Without one the newest prompts come first.
func (s *PromptService) List(ctx context.Context, f ListFilter) []*models.Prompt {
	prompts := make([]*models.Prompt, 0)
	for _, p := range s.store.GetPrompts(ctx) {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Tag != "" && !slices.Contains(p.Tags, f.Tag) {
			continue
		}
		prompts = append(prompts, p)
	}

	query := strings.TrimSpace(f.Query)
	if query == "" {
		sort.SliceStable(prompts, func(i, j int) bool {
			return prompts[i].CreatedAt.After(prompts[j].CreatedAt)
		})
		return prompts
	}

	searchStrings := make([]string, 0, len(prompts))
	for _, p := range prompts {
		searchStrings = append(searchStrings, p.Title+" "+strings.Join(p.Tags, " "))
	}

	matched := make(map[int]bool)
	results := make([]*models.Prompt, 0)
	for _, m := range fuzzy.Find(query, searchStrings) {
		matched[m.Index] = true
		results = append(results, prompts[m.Index])
	}

	needle := strings.ToLower(query)
	for i, p := range prompts {
		if !matched[i] && strings.Contains(strings.ToLower(p.Content), needle) {
			results = append(results, p)
		}
	}
	return results
}

func (s *PromptService) Get(ctx context.Context, id int) (*models.Prompt, error) {
	return s.store.GetPrompt(ctx, id)
}

func (s *PromptService) Create(ctx context.Context, np models.NewPrompt) (*models.Prompt, error) {
	np.Title = strings.TrimSpace(np.Title)
	if np.Category == "" {
		np.Category = defaultCategory
	}
	if err := s.validate(np.Title, np.Category); err != nil {
		return nil, err
	}
	np.Tags = normalizeTags(np.Tags)

	p, err := s.store.CreatePrompt(ctx, np)
	if err != nil {
		s.logger.Error(ctx, "create prompt", "error", err)
		return nil, err
	}
	return p, nil
}

func (s *PromptService) Update(ctx context.Context, id int, patch models.PromptPatch) (*models.Prompt, error) {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
		}
		patch.Title = &title
	}
	if patch.Category != nil && *patch.Category == "" {
		category := defaultCategory
		patch.Category = &category
	}
	if patch.Category != nil && !s.cfg.IsKnownCategory(*patch.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, *patch.Category)
	}
	if patch.Tags != nil {
		tags := normalizeTags(*patch.Tags)
		patch.Tags = &tags
	}
	return s.store.UpdatePrompt(ctx, id, patch)
}

// Trash moves a prompt to the trash.
func (s *PromptService) Trash(ctx context.Context, id int) error {
	if !s.store.MoveToTrash(ctx, id) {
		return common.ErrorNotFound
	}
	return nil
}

func (s *PromptService) ListTrash(ctx context.Context) []*models.DeletedPrompt {
	return s.store.GetDeletedPrompts(ctx)
}

func (s *PromptService) Restore(ctx context.Context, deletedID int) error {
	if !s.store.RestoreFromTrash(ctx, deletedID) {
		return common.ErrorNotFound
	}
	return nil
}

func (s *PromptService) DeleteFromTrash(ctx context.Context, deletedID int) error {
	if !s.store.DeleteFromTrash(ctx, deletedID) {
		return common.ErrorNotFound
	}
	return nil
}

func (s *PromptService) EmptyTrash(ctx context.Context) error {
	if !s.store.EmptyTrash(ctx) {
		return common.ErrorInternal
	}
	return nil
}

// Combine joins the contents of the given prompts, in the given order,
// separated by a blank line.
func (s *PromptService) Combine(ctx context.Context, ids []int) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("%w: no prompts selected", common.ErrorValidation)
	}
	contents := make([]string, 0, len(ids))
	for _, id := range ids {
		p, err := s.store.GetPrompt(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return "", fmt.Errorf("prompt %d: %w", id, common.ErrorNotFound)
			}
			return "", err
		}
		contents = append(contents, p.Content)
	}
	return strings.Join(contents, "\n\n"), nil
}

func (s *PromptService) Stats(ctx context.Context) *Stats {
	prompts := s.store.GetPrompts(ctx)
	st := &Stats{
		Total:      len(prompts),
		ByCategory: make(map[string]int),
		ByTag:      make(map[string]int),
		Trash:      len(s.store.GetDeletedPrompts(ctx)),
	}
	for _, p := range prompts {
		st.ByCategory[p.Category]++
		for _, tag := range p.Tags {
			st.ByTag[tag]++
		}
	}
	return st
}

// SweepExpiredTrash permanently deletes trash entries whose expiry date is
// not after now and returns how many were removed.
func (s *PromptService) SweepExpiredTrash(ctx context.Context, now time.Time) int {
	removed := 0
	for _, d := range s.store.GetDeletedPrompts(ctx) {
		if !d.Expired(now) {
			continue
		}
		if s.store.DeleteFromTrash(ctx, d.ID) {
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info(ctx, "expired trash swept", "removed", removed)
	}
	return removed
}

func (s *PromptService) validate(title, category string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if !s.cfg.IsKnownCategory(category) {
		return fmt.Errorf("%w: unknown category %q", common.ErrorValidation, category)
	}
	return nil
}

// normalizeTags trims tags and drops empty and repeated ones, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
