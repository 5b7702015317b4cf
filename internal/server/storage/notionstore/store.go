// Package notionstore implements the prompt store on top of a Notion
// database.
//
// Notion assigns opaque page ids, so the store hands out small integer ids
// through an idmap.Table that lives for the process lifetime only. Content
// longer than one rich-text property is split by the chunker: the prompt page
// keeps the first segment and a part count, and every further segment is its
// own page carrying a 1-based part index and the prompt page's id. Prompt and
// part pages also share a generation number that changes with every content
// update, so parts left over from an interrupted update are told apart from
// the current ones. Users, settings and the trash are kept in process memory.
package notionstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/chunker"
	"github.com/dmitrijs2005/promptvault/internal/server/idmap"
	"github.com/dmitrijs2005/promptvault/internal/server/notion"
	"github.com/dmitrijs2005/promptvault/internal/server/storage/memory"
)

const Name = "notion"

const (
	// maxTitleLength keeps a title within the items of one title property
	// even when grapheme cuts leave every item a little short.
	maxTitleLength     = notion.MaxRichTextItems * chunker.DefaultMaxLen
	maxPartTitleLength = 100

	// firstGeneration tags the content of a newly created prompt. Pages
	// written before generations existed read as zero on both sides.
	firstGeneration = 1
)

// ClientFactory builds a client bound to one database.
type ClientFactory func(token, databaseID string) (notion.Client, error)

type Options struct {
	Token      string
	DatabaseID string
	// Factory defaults to notion.NewAPIClient.
	Factory ClientFactory
	// ChunkSize is the content limit per page, chunker.DefaultMaxLen if zero.
	ChunkSize int
	// Concurrency bounds parallel part reassembly in GetPrompts.
	Concurrency    int
	Categories     []string
	TagOptions     []string
	TrashRetention time.Duration
	AdminUsername  string
	AdminPassword  string
	// Now defaults to time.Now.
	Now func() time.Time
}

type Store struct {
	logger      logging.Logger
	factory     ClientFactory
	chunkSize   int
	concurrency int
	categories  []string
	tagOptions  []string
	now         func() time.Time

	mu     sync.RWMutex
	client notion.Client

	ids   *idmap.Table
	parts *partCache

	users    *memory.Users
	settings *memory.Settings
	trash    *memory.Trash
}

// New connects to the database and reconciles its schema. Only a failure to
// build the client is returned; schema problems are logged.
func New(ctx context.Context, opts Options, logger logging.Logger) (*Store, error) {
	if opts.Factory == nil {
		opts.Factory = notion.NewAPIClient
	}
	if opts.ChunkSize == 0 {
		opts.ChunkSize = chunker.DefaultMaxLen
	}
	if opts.ChunkSize < chunker.MinMaxLen {
		return nil, chunker.ErrLimitTooSmall
	}
	if opts.ChunkSize > chunker.MaxMaxLen {
		return nil, chunker.ErrLimitTooLarge
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	client, err := opts.Factory(opts.Token, opts.DatabaseID)
	if err != nil {
		return nil, fmt.Errorf("notion client: %w", err)
	}

	s := &Store{
		logger:      logger.With("module", "notion_store"),
		factory:     opts.Factory,
		chunkSize:   opts.ChunkSize,
		concurrency: opts.Concurrency,
		categories:  opts.Categories,
		tagOptions:  opts.TagOptions,
		now:         opts.Now,
		client:      client,
		ids:         idmap.New(),
		parts:       newPartCache(),
		users:       memory.NewUsers(),
		settings:    memory.NewSettings(),
		trash:       memory.NewTrash(opts.TrashRetention),
	}

	s.settings.Set(common.SettingNotionAPIToken, opts.Token)
	s.settings.Set(common.SettingNotionDatabaseID, opts.DatabaseID)

	if opts.AdminUsername != "" && s.users.EnsureUser(opts.AdminUsername, opts.AdminPassword) {
		s.logger.Info(ctx, "admin account created", "username", opts.AdminUsername)
	}

	s.reconcileSchema(ctx, client)
	return s, nil
}

func (s *Store) Name() string { return Name }

func (s *Store) currentClient() notion.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// reconcileSchema adds the properties the store needs and the database lacks.
func (s *Store) reconcileSchema(ctx context.Context, client notion.Client) {
	existing, err := client.RetrieveSchema(ctx)
	if err != nil {
		s.logger.Error(ctx, "retrieve schema", "error", err)
		return
	}

	missing := notion.Missing(existing, notion.RequiredSchema(s.categories, s.tagOptions))
	if len(missing) == 0 {
		s.logger.Debug(ctx, "schema up to date")
		return
	}

	names := make([]string, 0, len(missing))
	for name := range missing {
		names = append(names, name)
	}
	if err := client.UpdateSchema(ctx, missing); err != nil {
		s.logger.Error(ctx, "update schema", "missing", names, "error", err)
		return
	}
	s.logger.Info(ctx, "schema properties added", "properties", names)
}

// UpdateNotionSettings switches to a new database. Integer ids issued for the
// previous database are dropped; new ones continue from the same counter.
func (s *Store) UpdateNotionSettings(ctx context.Context, token, databaseID string) error {
	client, err := s.factory(token, databaseID)
	if err != nil {
		s.logger.Error(ctx, "rebuild notion client", "error", err)
		return fmt.Errorf("notion client: %w", err)
	}

	s.mu.Lock()
	s.client = client
	s.mu.Unlock()

	dropped := s.ids.Len()
	s.ids.Reset()
	s.parts.Clear()
	s.settings.Set(common.SettingNotionAPIToken, token)
	s.settings.Set(common.SettingNotionDatabaseID, databaseID)

	s.logger.Info(ctx, "notion credentials updated", "dropped_ids", dropped)
	s.reconcileSchema(ctx, client)
	return nil
}
