// Package config builds the server configuration from defaults, an optional
// JSON or YAML file, environment variables and command-line flags, in that
// order of precedence (later wins).
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/server/chunker"
)

// Config holds runtime settings for the prompt server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the JSON API and the health service.
//   - DataFile: flat file used by the local store.
//   - SessionSecret / SessionTTL: HMAC secret and lifetime of issued session tokens.
//   - NotionAPIToken / NotionDatabaseID: when both are set the remote store is used.
//   - ChunkSize: per-field content limit for the remote store.
//   - RemoteConcurrency: parallel part reassembly when listing remote prompts.
//   - TrashRetention: how long trash entries are kept before they count as expired.
//   - TrashSweepInterval: how often expired trash is purged; 0 disables the sweeper.
//   - Categories / TagOptions: accepted categories and the tag options declared on the remote schema.
//   - AdminUsername / AdminPassword: account seeded at startup (password may be a "hash.salt").
type Config struct {
	EndpointAddrHTTP   string
	EndpointAddrGRPC   string
	DataFile           string
	SessionSecret      string
	SessionTTL         time.Duration
	NotionAPIToken     string
	NotionDatabaseID   string
	ChunkSize          int
	RemoteConcurrency  int
	TrashRetention     time.Duration
	TrashSweepInterval time.Duration
	Categories         []string
	TagOptions         []string
	AdminUsername      string
	AdminPassword      string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the session secret and admin password must be overridden in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.EndpointAddrGRPC = ":50051"
	c.DataFile = "data/prompts.json"
	c.SessionSecret = "your-secret-key"
	c.SessionTTL = 7 * 24 * time.Hour
	c.ChunkSize = chunker.DefaultMaxLen
	c.RemoteConcurrency = 4
	c.TrashRetention = 7 * 24 * time.Hour
	c.TrashSweepInterval = 0
	c.Categories = []string{"creative", "academic", "business", "technical", "other"}
	c.TagOptions = []string{"gpt", "writing", "code", "business", "academic"}
	c.AdminUsername = "admin"
	c.AdminPassword = "admin"
}

// HasNotionCredentials reports whether the remote store should be tried.
func (c *Config) HasNotionCredentials() bool {
	return c.NotionAPIToken != "" && c.NotionDatabaseID != ""
}

// IsKnownCategory reports whether category is one of the configured values.
func (c *Config) IsKnownCategory(category string) bool {
	return slices.Contains(c.Categories, category)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.ChunkSize < chunker.MinMaxLen || c.ChunkSize > chunker.MaxMaxLen {
		return fmt.Errorf("chunk size %d outside [%d, %d]", c.ChunkSize, chunker.MinMaxLen, chunker.MaxMaxLen)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then the config file,
// the environment and finally command-line flags. An invalid result panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
