package notionstore

import (
	"context"
	"errors"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/promptvault/internal/server/notion"
	"github.com/google/uuid"
)

var errBackend = errors.New("backend unavailable")

// fakeClient is an in-memory document database with the filter semantics of
// the real one.
type fakeClient struct {
	mu     sync.Mutex
	pages  map[string]*notion.Page
	order  []string
	schema notion.Schema

	schemaUpdates []notion.Schema
	queryCalls    int
	createCalls   int

	failSchema   bool
	failQuery    bool
	failRetrieve bool
	failUpdate   bool
	failArchive  bool
	// failCreateAt makes the n-th CreatePage call (1-based) fail.
	failCreateAt int
	// reverseResults returns query results in reverse order, ignoring sorts.
	reverseResults bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages:  make(map[string]*notion.Page),
		schema: notion.Schema{"Name": {Kind: notion.KindTitle}},
	}
}

func (f *fakeClient) RetrieveSchema(ctx context.Context) (notion.Schema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSchema {
		return nil, errBackend
	}
	out := notion.Schema{}
	for k, v := range f.schema {
		out[k] = v
	}
	return out, nil
}

func (f *fakeClient) UpdateSchema(ctx context.Context, missing notion.Schema) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schemaUpdates = append(f.schemaUpdates, missing)
	for k, v := range missing {
		f.schema[k] = v
	}
	return nil
}

func (f *fakeClient) Query(ctx context.Context, q notion.Query) ([]notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	if f.failQuery {
		return nil, errBackend
	}

	var out []notion.Page
	for _, id := range f.order {
		p := f.pages[id]
		if p.Archived {
			continue
		}
		switch {
		case q.ParentID != "":
			if p.ParentID != q.ParentID {
				continue
			}
		case q.TopLevel:
			if p.ParentID != "" && strings.Contains(p.ParentID, "-") {
				continue
			}
		}
		out = append(out, copyPage(p))
	}

	if f.reverseResults {
		slices.Reverse(out)
	} else if q.SortByPartIndex {
		sort.SliceStable(out, func(i, j int) bool { return out[i].PartIndex < out[j].PartIndex })
	}
	return out, nil
}

func (f *fakeClient) CreatePage(ctx context.Context, fields notion.Fields) (notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreateAt == f.createCalls {
		return notion.Page{}, errBackend
	}

	p := &notion.Page{ID: uuid.NewString(), Tags: []string{}}
	applyFields(p, fields)
	f.pages[p.ID] = p
	f.order = append(f.order, p.ID)
	return copyPage(p), nil
}

func (f *fakeClient) UpdatePage(ctx context.Context, id string, fields notion.Fields) (notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return notion.Page{}, errBackend
	}
	p, ok := f.pages[id]
	if !ok || p.Archived {
		return notion.Page{}, errors.New("page not found")
	}
	applyFields(p, fields)
	return copyPage(p), nil
}

func (f *fakeClient) ArchivePage(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failArchive {
		return errBackend
	}
	p, ok := f.pages[id]
	if !ok {
		return errors.New("page not found")
	}
	p.Archived = true
	return nil
}

func (f *fakeClient) RetrievePage(ctx context.Context, id string) (notion.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRetrieve {
		return notion.Page{}, errBackend
	}
	p, ok := f.pages[id]
	if !ok {
		return notion.Page{}, errors.New("page not found")
	}
	return copyPage(p), nil
}

// active returns non-archived pages in creation order.
func (f *fakeClient) active() []notion.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notion.Page
	for _, id := range f.order {
		if p := f.pages[id]; !p.Archived {
			out = append(out, copyPage(p))
		}
	}
	return out
}

func (f *fakeClient) set(fn func(f *fakeClient)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func applyFields(p *notion.Page, f notion.Fields) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Content != nil {
		p.Content = *f.Content
	}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.Tags != nil {
		p.Tags = slices.Clone(*f.Tags)
	}
	if f.CreatedAt != nil {
		p.CreatedAt = *f.CreatedAt
	}
	if f.PartCount != nil {
		p.PartCount = *f.PartCount
	}
	if f.PartIndex != nil {
		p.PartIndex = *f.PartIndex
	}
	if f.ParentID != nil {
		p.ParentID = *f.ParentID
	}
	if f.Generation != nil {
		p.Generation = *f.Generation
	}
}

func copyPage(p *notion.Page) notion.Page {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	return c
}
