package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/promptvault/internal/flagx"
	"github.com/dmitrijs2005/promptvault/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the configuration. Durations accept
// "1h"-style strings; JSON also accepts integer nanoseconds.
type FileConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DataFile           string         `json:"data_file" yaml:"data_file"`
	SessionSecret      string         `json:"session_secret" yaml:"session_secret"`
	SessionTTL         timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	NotionAPIToken     string         `json:"notion_api_token" yaml:"notion_api_token"`
	NotionDatabaseID   string         `json:"notion_database_id" yaml:"notion_database_id"`
	ChunkSize          int            `json:"chunk_size" yaml:"chunk_size"`
	RemoteConcurrency  int            `json:"remote_concurrency" yaml:"remote_concurrency"`
	TrashRetention     timex.Duration `json:"trash_retention" yaml:"trash_retention"`
	TrashSweepInterval timex.Duration `json:"trash_sweep_interval" yaml:"trash_sweep_interval"`
	Categories         []string       `json:"categories" yaml:"categories"`
	TagOptions         []string       `json:"tag_options" yaml:"tag_options"`
	AdminUsername      string         `json:"admin_username" yaml:"admin_username"`
	AdminPassword      string         `json:"admin_password" yaml:"admin_password"`
}

// parseFile overlays values from the file named by -c/-config. Files ending
// in .yaml or .yml are decoded as YAML, anything else as JSON. Only keys
// present with a non-zero value override the current config. An unreadable or
// invalid file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *FileConfig) applyTo(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DataFile, c.DataFile)
	setString(&config.SessionSecret, c.SessionSecret)
	setString(&config.NotionAPIToken, c.NotionAPIToken)
	setString(&config.NotionDatabaseID, c.NotionDatabaseID)
	setString(&config.AdminUsername, c.AdminUsername)
	setString(&config.AdminPassword, c.AdminPassword)

	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.TrashRetention.Duration != 0 {
		config.TrashRetention = c.TrashRetention.Duration
	}
	if c.TrashSweepInterval.Duration != 0 {
		config.TrashSweepInterval = c.TrashSweepInterval.Duration
	}
	if c.ChunkSize != 0 {
		config.ChunkSize = c.ChunkSize
	}
	if c.RemoteConcurrency != 0 {
		config.RemoteConcurrency = c.RemoteConcurrency
	}
	if len(c.Categories) > 0 {
		config.Categories = c.Categories
	}
	if len(c.TagOptions) > 0 {
		config.TagOptions = c.TagOptions
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
