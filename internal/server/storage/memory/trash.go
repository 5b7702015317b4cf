package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/server/models"
)

// Trash holds deleted prompts. Entry ids come from their own counter and are
// unrelated to prompt ids.
type Trash struct {
	mu        sync.Mutex
	next      int
	retention time.Duration
	entries   map[int]*models.DeletedPrompt
}

func NewTrash(retention time.Duration) *Trash {
	return &Trash{next: 1, retention: retention, entries: make(map[int]*models.DeletedPrompt)}
}

// Add records a copy of p deleted at now.
func (t *Trash) Add(p *models.Prompt, now time.Time) *models.DeletedPrompt {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := models.NewDeletedPrompt(t.next, p, now, t.retention)
	t.next++
	t.entries[entry.ID] = entry
	return entry.Clone()
}

func (t *Trash) Get(id int) (*models.DeletedPrompt, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[id]
	if !ok {
		return nil, false
	}
	return entry.Clone(), true
}

// Remove deletes one entry and reports whether it existed.
func (t *Trash) Remove(id int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.entries[id]; !ok {
		return false
	}
	delete(t.entries, id)
	return true
}

func (t *Trash) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[int]*models.DeletedPrompt)
}

// List returns all entries ordered by id.
func (t *Trash) List() []*models.DeletedPrompt {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]*models.DeletedPrompt, 0, len(t.entries))
	for _, entry := range t.entries {
		out = append(out, entry.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
