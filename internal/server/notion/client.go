// Package notion describes the document-database operations the remote store
// needs, and adapts them onto the Notion API.
//
// Each prompt is a page in one database. Content that does not fit in a
// single rich-text property is continued in extra "part" pages that point
// back to the main page through the parent property.
package notion

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Property names on the prompt database.
const (
	PropTitle            = "title"
	PropContent          = "content"
	PropCategory         = "category"
	PropTags             = "tags"
	PropCreatedAt        = "createdAt"
	PropContentPartCount = "contentPartCount"
	PropPartIndex        = "partIndex"
	PropParentPromptID   = "parentPromptId"
	PropPartGeneration   = "partGeneration"
)

// MaxRichTextItems is the most items one title or rich-text property holds.
const MaxRichTextItems = 100

var ErrMissingCredentials = errors.New("notion: token and database id are required")

type PropertyKind string

const (
	KindTitle       PropertyKind = "title"
	KindRichText    PropertyKind = "rich_text"
	KindNumber      PropertyKind = "number"
	KindSelect      PropertyKind = "select"
	KindMultiSelect PropertyKind = "multi_select"
	KindDate        PropertyKind = "date"
)

type Option struct {
	Name  string
	Color string
}

type PropertySpec struct {
	Kind    PropertyKind
	Options []Option
}

// Schema maps property names to their declaration.
type Schema map[string]PropertySpec

// Page is a decoded database record.
type Page struct {
	ID        string
	Archived  bool
	Title     string
	Content   string
	Category  string
	Tags      []string
	CreatedAt time.Time
	PartCount int
	PartIndex int
	ParentID  string
	// Generation ties a prompt page to the part pages of its current content.
	// Parts of any other generation are leftovers of an earlier write.
	Generation int
}

// Fields lists property values to write. Nil fields are not sent.
type Fields struct {
	Title      *string
	Content    *string
	Category   *string
	Tags       *[]string
	CreatedAt  *time.Time
	PartCount  *int
	PartIndex  *int
	ParentID   *string
	Generation *int
}

func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Content == nil && f.Category == nil && f.Tags == nil &&
		f.CreatedAt == nil && f.PartCount == nil && f.PartIndex == nil && f.ParentID == nil &&
		f.Generation == nil
}

// Query selects pages of the database. ParentID takes precedence over
// TopLevel.
type Query struct {
	// ParentID selects the part pages of one prompt.
	ParentID string
	// TopLevel selects pages whose parent property is empty or does not look
	// like a page id.
	TopLevel bool
	// SortByPartIndex orders results by ascending part index.
	SortByPartIndex bool
}

// Client is the subset of the document database used by the remote store.
type Client interface {
	RetrieveSchema(ctx context.Context) (Schema, error)
	// UpdateSchema adds the given properties to the database.
	UpdateSchema(ctx context.Context, missing Schema) error
	// Query returns every matching, non-archived page.
	Query(ctx context.Context, q Query) ([]Page, error)
	CreatePage(ctx context.Context, f Fields) (Page, error)
	UpdatePage(ctx context.Context, id string, f Fields) (Page, error)
	ArchivePage(ctx context.Context, id string) error
	RetrievePage(ctx context.Context, id string) (Page, error)
}

// IsPageID reports whether a parent reference looks like a native page id.
// Page ids are dashed UUIDs; anything without a dash is treated as free text.
func IsPageID(s string) bool {
	return strings.Contains(s, "-")
}
