package storage

import (
	"context"

	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/config"
	"github.com/dmitrijs2005/promptvault/internal/server/notion"
	"github.com/dmitrijs2005/promptvault/internal/server/storage/local"
	"github.com/dmitrijs2005/promptvault/internal/server/storage/notionstore"
)

var (
	_ Storage = (*local.Store)(nil)
	_ Storage = (*notionstore.Store)(nil)
)

var newNotionClient notionstore.ClientFactory = notion.NewAPIClient

// New picks the store for this process. The Notion store is used when both
// credentials are configured and a client can be built; otherwise prompts
// go to the local data file.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) Storage {
	localOpts := local.Options{
		Path:             cfg.DataFile,
		TrashRetention:   cfg.TrashRetention,
		AdminUsername:    cfg.AdminUsername,
		AdminPassword:    cfg.AdminPassword,
		NotionAPIToken:   cfg.NotionAPIToken,
		NotionDatabaseID: cfg.NotionDatabaseID,
	}

	if !cfg.HasNotionCredentials() {
		logger.Info(ctx, "notion credentials not set, using local storage", "path", cfg.DataFile)
		return local.New(ctx, localOpts, logger)
	}

	s, err := notionstore.New(ctx, notionstore.Options{
		Token:          cfg.NotionAPIToken,
		DatabaseID:     cfg.NotionDatabaseID,
		Factory:        newNotionClient,
		ChunkSize:      cfg.ChunkSize,
		Concurrency:    cfg.RemoteConcurrency,
		Categories:     cfg.Categories,
		TagOptions:     cfg.TagOptions,
		TrashRetention: cfg.TrashRetention,
		AdminUsername:  cfg.AdminUsername,
		AdminPassword:  cfg.AdminPassword,
	}, logger)
	if err != nil {
		logger.Error(ctx, "notion storage unavailable, falling back to local storage", "error", err)
		return local.New(ctx, localOpts, logger)
	}

	logger.Info(ctx, "using notion storage")
	return s
}
