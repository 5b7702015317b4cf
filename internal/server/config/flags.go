package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/promptvault/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string       HTTP bind address (e.g. ":5000")
//	-g string       gRPC health bind address
//	-f string       local store data file
//	-s string       session secret
//	-t string       Notion API token
//	-d string       Notion database id
//	-k int          content chunk size
//	-r duration     trash retention (e.g. "168h")
//	-w duration     trash sweep interval, 0 disables
//	-u string       admin username
//	-p string       admin password or "hash.salt"
//	-categories     comma separated category list
//
// Only these flags are looked at (flagx.FilterArgs), so -c/-config and flags
// of other components do not collide. A parse error panics.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-f", "-s", "-t", "-d", "-k", "-r", "-w", "-u", "-p", "-categories"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port of the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port of the gRPC health service")
	fs.StringVar(&config.DataFile, "f", config.DataFile, "local store data file")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")
	fs.StringVar(&config.NotionAPIToken, "t", config.NotionAPIToken, "Notion API token")
	fs.StringVar(&config.NotionDatabaseID, "d", config.NotionDatabaseID, "Notion database id")
	fs.IntVar(&config.ChunkSize, "k", config.ChunkSize, "content chunk size")
	fs.DurationVar(&config.TrashRetention, "r", config.TrashRetention, "trash retention")
	fs.DurationVar(&config.TrashSweepInterval, "w", config.TrashSweepInterval, "trash sweep interval (0 disables)")
	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "admin username")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "admin password")
	categories := fs.String("categories", strings.Join(config.Categories, ","), "comma separated categories")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.Categories = splitList(*categories)
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
