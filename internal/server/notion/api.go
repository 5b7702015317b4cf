package notion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/server/chunker"
	"github.com/jomei/notionapi"
)

// APIClient implements Client on top of the Notion REST API.
type APIClient struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID

	mu            sync.RWMutex
	titleProperty string
}

var _ Client = (*APIClient)(nil)

// NewAPIClient binds a Notion client to one database.
func NewAPIClient(token, databaseID string) (Client, error) {
	token, databaseID = strings.TrimSpace(token), strings.TrimSpace(databaseID)
	if token == "" || databaseID == "" {
		return nil, ErrMissingCredentials
	}
	return &APIClient{
		api:           notionapi.NewClient(notionapi.Token(token)),
		databaseID:    notionapi.DatabaseID(databaseID),
		titleProperty: PropTitle,
	}, nil
}

// RetrieveSchema also remembers the name of the database's title property,
// which Notion lets users rename.
func (c *APIClient) RetrieveSchema(ctx context.Context) (Schema, error) {
	db, err := c.api.Database.Get(ctx, c.databaseID)
	if err != nil {
		return nil, fmt.Errorf("retrieve database: %w", err)
	}

	schema := make(Schema, len(db.Properties))
	for name, cfg := range db.Properties {
		kind := PropertyKind(cfg.GetType())
		schema[name] = PropertySpec{Kind: kind}
		if kind == KindTitle {
			c.setTitleProperty(name)
		}
	}
	return schema, nil
}

func (c *APIClient) UpdateSchema(ctx context.Context, missing Schema) error {
	if len(missing) == 0 {
		return nil
	}
	configs := make(notionapi.PropertyConfigs, len(missing))
	for name, spec := range missing {
		cfg, err := propertyConfig(spec)
		if err != nil {
			return err
		}
		configs[name] = cfg
	}
	_, err := c.api.Database.Update(ctx, c.databaseID, &notionapi.DatabaseUpdateRequest{Properties: configs})
	if err != nil {
		return fmt.Errorf("update database: %w", err)
	}
	return nil
}

// Query follows pagination cursors until every match is collected.
func (c *APIClient) Query(ctx context.Context, q Query) ([]Page, error) {
	req := &notionapi.DatabaseQueryRequest{Filter: queryFilter(q), PageSize: 100}
	if q.SortByPartIndex {
		req.Sorts = []notionapi.SortObject{{Property: PropPartIndex, Direction: notionapi.SortOrderASC}}
	}

	var pages []Page
	for {
		resp, err := c.api.Database.Query(ctx, c.databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("query database: %w", err)
		}
		for i := range resp.Results {
			if resp.Results[i].Archived {
				continue
			}
			pages = append(pages, decodePage(&resp.Results[i]))
		}
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

func (c *APIClient) CreatePage(ctx context.Context, f Fields) (Page, error) {
	page, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent:     notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: c.databaseID},
		Properties: encodeFields(f, c.title()),
	})
	if err != nil {
		return Page{}, fmt.Errorf("create page: %w", err)
	}
	return decodePage(page), nil
}

func (c *APIClient) UpdatePage(ctx context.Context, id string, f Fields) (Page, error) {
	page, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: encodeFields(f, c.title()),
	})
	if err != nil {
		return Page{}, fmt.Errorf("update page %s: %w", id, err)
	}
	return decodePage(page), nil
}

func (c *APIClient) ArchivePage(ctx context.Context, id string) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Archived:   true,
		Properties: notionapi.Properties{},
	})
	if err != nil {
		return fmt.Errorf("archive page %s: %w", id, err)
	}
	return nil
}

func (c *APIClient) RetrievePage(ctx context.Context, id string) (Page, error) {
	page, err := c.api.Page.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return Page{}, fmt.Errorf("retrieve page %s: %w", id, err)
	}
	return decodePage(page), nil
}

func (c *APIClient) title() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.titleProperty
}

func (c *APIClient) setTitleProperty(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titleProperty = name
}

func queryFilter(q Query) notionapi.Filter {
	switch {
	case q.ParentID != "":
		return notionapi.PropertyFilter{
			Property: PropParentPromptID,
			RichText: &notionapi.TextFilterCondition{Equals: q.ParentID},
		}
	case q.TopLevel:
		return notionapi.OrCompoundFilter{
			notionapi.PropertyFilter{
				Property: PropParentPromptID,
				RichText: &notionapi.TextFilterCondition{IsEmpty: true},
			},
			notionapi.PropertyFilter{
				Property: PropParentPromptID,
				RichText: &notionapi.TextFilterCondition{DoesNotContain: "-"},
			},
		}
	default:
		return nil
	}
}

func propertyConfig(spec PropertySpec) (notionapi.PropertyConfig, error) {
	switch spec.Kind {
	case KindRichText:
		return notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText}, nil
	case KindNumber:
		return notionapi.NumberPropertyConfig{
			Type:   notionapi.PropertyConfigTypeNumber,
			Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
		}, nil
	case KindSelect:
		return notionapi.SelectPropertyConfig{
			Type:   notionapi.PropertyConfigTypeSelect,
			Select: notionapi.Select{Options: apiOptions(spec.Options)},
		}, nil
	case KindMultiSelect:
		return notionapi.MultiSelectPropertyConfig{
			Type:        notionapi.PropertyConfigTypeMultiSelect,
			MultiSelect: notionapi.Select{Options: apiOptions(spec.Options)},
		}, nil
	case KindDate:
		return notionapi.DatePropertyConfig{Type: notionapi.PropertyConfigTypeDate}, nil
	default:
		return nil, fmt.Errorf("unsupported property kind %q", spec.Kind)
	}
}

func apiOptions(opts []Option) []notionapi.Option {
	out := make([]notionapi.Option, 0, len(opts))
	for _, o := range opts {
		out = append(out, notionapi.Option{Name: o.Name, Color: notionapi.Color(o.Color)})
	}
	return out
}

// richText encodes s as consecutive items that each fit the per-item limit.
func richText(s string) []notionapi.RichText {
	pieces := chunker.Pieces(s, chunker.FieldLimit)
	out := make([]notionapi.RichText, 0, len(pieces))
	for _, p := range pieces {
		out = append(out, notionapi.RichText{Text: &notionapi.Text{Content: p}})
	}
	return out
}

func encodeFields(f Fields, titleProperty string) notionapi.Properties {
	props := notionapi.Properties{}
	if f.Title != nil {
		props[titleProperty] = notionapi.TitleProperty{Title: richText(*f.Title)}
	}
	if f.Content != nil {
		props[PropContent] = notionapi.RichTextProperty{RichText: richText(*f.Content)}
	}
	if f.Category != nil {
		props[PropCategory] = notionapi.SelectProperty{Select: notionapi.Option{Name: *f.Category}}
	}
	if f.Tags != nil {
		opts := make([]notionapi.Option, 0, len(*f.Tags))
		for _, tag := range *f.Tags {
			opts = append(opts, notionapi.Option{Name: tag})
		}
		props[PropTags] = notionapi.MultiSelectProperty{MultiSelect: opts}
	}
	if f.CreatedAt != nil {
		d := notionapi.Date(*f.CreatedAt)
		props[PropCreatedAt] = notionapi.DateProperty{Date: &notionapi.DateObject{Start: &d}}
	}
	if f.PartCount != nil {
		props[PropContentPartCount] = notionapi.NumberProperty{Number: float64(*f.PartCount)}
	}
	if f.PartIndex != nil {
		props[PropPartIndex] = notionapi.NumberProperty{Number: float64(*f.PartIndex)}
	}
	if f.ParentID != nil {
		props[PropParentPromptID] = notionapi.RichTextProperty{RichText: richText(*f.ParentID)}
	}
	if f.Generation != nil {
		props[PropPartGeneration] = notionapi.NumberProperty{Number: float64(*f.Generation)}
	}
	return props
}

// decodePage reads the known properties of page. Any title-typed property is
// taken as the title, whatever its name.
func decodePage(page *notionapi.Page) Page {
	out := Page{ID: string(page.ID), Archived: page.Archived}

	for name, prop := range page.Properties {
		switch p := prop.(type) {
		case *notionapi.TitleProperty:
			out.Title = plainText(p.Title)
		case *notionapi.RichTextProperty:
			decodeRichText(&out, name, p.RichText)
		case *notionapi.SelectProperty:
			if name == PropCategory {
				out.Category = p.Select.Name
			}
		case *notionapi.MultiSelectProperty:
			if name == PropTags {
				out.Tags = make([]string, 0, len(p.MultiSelect))
				for _, o := range p.MultiSelect {
					out.Tags = append(out.Tags, o.Name)
				}
			}
		case *notionapi.DateProperty:
			if name == PropCreatedAt && p.Date != nil && p.Date.Start != nil {
				out.CreatedAt = time.Time(*p.Date.Start)
			}
		case *notionapi.NumberProperty:
			decodeNumber(&out, name, p.Number)
		}
	}

	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

func decodeRichText(out *Page, name string, rt []notionapi.RichText) {
	switch name {
	case PropContent:
		out.Content = plainText(rt)
	case PropParentPromptID:
		out.ParentID = plainText(rt)
	}
}

func decodeNumber(out *Page, name string, n float64) {
	switch name {
	case PropContentPartCount:
		out.PartCount = int(n)
	case PropPartIndex:
		out.PartIndex = int(n)
	case PropPartGeneration:
		out.Generation = int(n)
	}
}

func plainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, r := range rt {
		switch {
		case r.Text != nil:
			b.WriteString(r.Text.Content)
		default:
			b.WriteString(r.PlainText)
		}
	}
	return b.String()
}
