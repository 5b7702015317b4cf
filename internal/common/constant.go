package common

// Setting keys seeded at startup and editable at runtime.
const (
	SettingNotionAPIToken   = "notionApiToken"
	SettingNotionDatabaseID = "notionDatabaseId"
)

// RequestIDHeaderName carries the per-request id on HTTP responses.
const RequestIDHeaderName = "X-Request-ID"
