// Package local implements the default prompt store: prompts live in memory
// and are written to a JSON file after every change. Users, settings and the
// trash stay in memory only.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/filex"
	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
	"github.com/dmitrijs2005/promptvault/internal/server/storage/memory"
)

const Name = "local"

type Options struct {
	Path             string
	TrashRetention   time.Duration
	AdminUsername    string
	AdminPassword    string
	NotionAPIToken   string
	NotionDatabaseID string
	// Now defaults to time.Now.
	Now func() time.Time
}

// fileData is the on-disk layout: {"prompts": [...]}.
type fileData struct {
	Prompts []*models.Prompt `json:"prompts"`
}

type Store struct {
	logger logging.Logger
	path   string
	now    func() time.Time

	// mu serialises every change to prompts together with the file write
	// that follows it.
	mu      sync.Mutex
	prompts map[int]*models.Prompt
	order   []int
	next    int

	users    *memory.Users
	settings *memory.Settings
	trash    *memory.Trash
}

// New loads the data file, creating or resetting it when it is missing or
// unreadable, and seeds the admin account and the settings.
func New(ctx context.Context, opts Options, logger logging.Logger) *Store {
	s := &Store{
		logger:   logger.With("module", "local_store"),
		path:     opts.Path,
		now:      opts.Now,
		prompts:  make(map[int]*models.Prompt),
		next:     1,
		users:    memory.NewUsers(),
		settings: memory.NewSettings(),
		trash:    memory.NewTrash(opts.TrashRetention),
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.settings.Set(common.SettingNotionAPIToken, opts.NotionAPIToken)
	s.settings.Set(common.SettingNotionDatabaseID, opts.NotionDatabaseID)

	if opts.AdminUsername != "" && s.users.EnsureUser(opts.AdminUsername, opts.AdminPassword) {
		s.logger.Info(ctx, "admin account created", "username", opts.AdminUsername)
	}

	s.load(ctx)
	return s
}

func (s *Store) Name() string { return Name }

func (s *Store) load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Error(ctx, "read data file", "path", s.path, "error", err)
		}
		s.resetLocked(ctx)
		return
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		s.logger.Error(ctx, "malformed data file, starting empty", "path", s.path, "error", err)
		s.resetLocked(ctx)
		return
	}

	for _, p := range fd.Prompts {
		if p == nil || p.ID <= 0 {
			continue
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		if _, dup := s.prompts[p.ID]; !dup {
			s.order = append(s.order, p.ID)
		}
		s.prompts[p.ID] = p
		if p.ID >= s.next {
			s.next = p.ID + 1
		}
	}
	s.logger.Info(ctx, "prompts loaded", "path", s.path, "count", len(s.prompts), "next_id", s.next)
}

func (s *Store) resetLocked(ctx context.Context) {
	s.prompts = make(map[int]*models.Prompt)
	s.order = nil
	s.saveLocked(ctx)
}

// saveLocked rewrites the whole file. Failures are logged; memory stays ahead
// of the disk until the next successful write.
func (s *Store) saveLocked(ctx context.Context) {
	fd := fileData{Prompts: make([]*models.Prompt, 0, len(s.order))}
	for _, id := range s.order {
		fd.Prompts = append(fd.Prompts, s.prompts[id])
	}

	data, err := json.MarshalIndent(fd, "", "  ")
	if err != nil {
		s.logger.Error(ctx, "encode prompts", "error", err)
		return
	}
	if err := filex.WriteFileAtomic(s.path, data, 0o644); err != nil {
		s.logger.Error(ctx, "write data file", "path", s.path, "error", err)
	}
}

func (s *Store) insertLocked(p *models.Prompt) {
	if _, exists := s.prompts[p.ID]; !exists {
		s.order = append(s.order, p.ID)
	}
	s.prompts[p.ID] = p
	if p.ID >= s.next {
		s.next = p.ID + 1
	}
}

func (s *Store) removeLocked(id int) bool {
	if _, ok := s.prompts[id]; !ok {
		return false
	}
	delete(s.prompts, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
