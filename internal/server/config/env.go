package config

import "os"

var lookupEnv = os.LookupEnv

// parseEnv applies the environment variables the deployment sets:
//
//	NOTION_API_TOKEN, NOTION_DATABASE_ID  remote store credentials
//	SESSION_SECRET                        session token secret
//	PORT                                  HTTP port, bound on all interfaces
//	DATA_FILE                             local store file
func parseEnv(config *Config) {
	if v, ok := lookupEnv("NOTION_API_TOKEN"); ok {
		config.NotionAPIToken = v
	}
	if v, ok := lookupEnv("NOTION_DATABASE_ID"); ok {
		config.NotionDatabaseID = v
	}
	if v, ok := lookupEnv("SESSION_SECRET"); ok && v != "" {
		config.SessionSecret = v
	}
	if v, ok := lookupEnv("PORT"); ok && v != "" {
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := lookupEnv("DATA_FILE"); ok && v != "" {
		config.DataFile = v
	}
}
