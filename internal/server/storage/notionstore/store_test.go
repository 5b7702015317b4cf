package notionstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/common"
	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/chunker"
	"github.com/dmitrijs2005/promptvault/internal/server/models"
	"github.com/dmitrijs2005/promptvault/internal/server/notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func longText(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}

func newTestStore(t *testing.T, fc *fakeClient) *Store {
	t.Helper()
	s, err := New(context.Background(), Options{
		Token:          "secret_token",
		DatabaseID:     "db-1",
		Factory:        func(string, string) (notion.Client, error) { return fc, nil },
		Concurrency:    4,
		Categories:     []string{"creative", "technical", "other"},
		TagOptions:     []string{"gpt", "code"},
		TrashRetention: 7 * 24 * time.Hour,
		AdminUsername:  "admin",
		AdminPassword:  "admin",
		Now:            func() time.Time { return fixedNow },
	}, logging.Nop())
	require.NoError(t, err)
	return s
}

func TestNew_ReconcilesMissingProperties(t *testing.T) {
	fc := newFakeClient()
	fc.schema[notion.PropContent] = notion.PropertySpec{Kind: notion.KindRichText}

	newTestStore(t, fc)

	require.Len(t, fc.schemaUpdates, 1)
	added := fc.schemaUpdates[0]
	assert.Len(t, added, 7)
	assert.NotContains(t, added, notion.PropContent)
	assert.Equal(t, []notion.Option{{Name: "creative", Color: "blue"}, {Name: "technical", Color: "gray"}, {Name: "other", Color: "default"}}, added[notion.PropCategory].Options)

	newTestStore(t, fc)
	assert.Len(t, fc.schemaUpdates, 1, "complete schema is left alone")
}

func TestNew_SchemaFailureIsNotFatal(t *testing.T) {
	fc := newFakeClient()
	fc.failSchema = true

	s := newTestStore(t, fc)
	assert.Equal(t, Name, s.Name())
	assert.Empty(t, fc.schemaUpdates)
}

func TestNew_ClientFailure(t *testing.T) {
	_, err := New(context.Background(), Options{
		Factory: func(string, string) (notion.Client, error) { return nil, notion.ErrMissingCredentials },
	}, logging.Nop())
	assert.ErrorIs(t, err, notion.ErrMissingCredentials)

	_, err = New(context.Background(), Options{ChunkSize: 3}, logging.Nop())
	assert.ErrorIs(t, err, chunker.ErrLimitTooSmall)

	_, err = New(context.Background(), Options{ChunkSize: chunker.MaxMaxLen + 1}, logging.Nop())
	assert.ErrorIs(t, err, chunker.ErrLimitTooLarge)
}

func TestCreatePrompt_SplitsLongContent(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(5000)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "Long", Content: content, Category: "technical", Tags: []string{"code"}})
	require.NoError(t, err)
	assert.Equal(t, &models.Prompt{ID: 1, Title: "Long", Content: content, Category: "technical", Tags: []string{"code"}, CreatedAt: fixedNow}, p)

	pages := fc.active()
	require.Len(t, pages, 3, "one prompt page and two part pages")

	main := pages[0]
	assert.Equal(t, content[:1990]+chunker.Marker, main.Content)
	assert.Equal(t, 2, main.PartCount)
	assert.Empty(t, main.ParentID)

	for i, part := range pages[1:] {
		assert.Equal(t, i+1, part.PartIndex)
		assert.Equal(t, main.ID, part.ParentID)
		assert.Equal(t, "Long - Part "+string(rune('1'+i)), part.Title)
	}
	assert.Equal(t, content[1990:3980], pages[1].Content)
	assert.Equal(t, content[3980:], pages[2].Content)
	assert.Len(t, pages[2].Content, 1020)

	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Content, 5000)
	assert.Equal(t, content, got.Content)
}

func TestCreatePrompt_ShortContentHasNoParts(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)

	_, err := s.CreatePrompt(context.Background(), models.NewPrompt{Title: "short", Content: "hello", Category: "other"})
	require.NoError(t, err)

	pages := fc.active()
	require.Len(t, pages, 1)
	assert.Equal(t, "hello", pages[0].Content)
	assert.Zero(t, pages[0].PartCount)
}

func TestCreatePrompt_KeepsFullTitle(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	title := strings.Repeat("T", 2500)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: title, Content: longText(2500), Category: "other"})
	require.NoError(t, err)
	assert.Equal(t, title, p.Title)

	pages := fc.active()
	require.Len(t, pages, 2)
	assert.Equal(t, title, pages[0].Title)
	assert.Equal(t, strings.Repeat("T", 100)+"... - Part 1", pages[1].Title)

	listed := newTestStore(t, fc).GetPrompts(ctx)
	require.Len(t, listed, 1)
	assert.Equal(t, title, listed[0].Title)

	longer := strings.Repeat("U", 4100)
	_, err = s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Title: &longer})
	require.NoError(t, err)
	s.parts.Clear()
	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, longer, got.Title)

	huge := strings.Repeat("H", maxTitleLength+10)
	created, err := s.CreatePrompt(ctx, models.NewPrompt{Title: huge, Content: "c", Category: "other"})
	require.NoError(t, err)
	assert.Equal(t, huge, created.Title)
	pages = fc.active()
	assert.Equal(t, strings.Repeat("H", maxTitleLength)+chunker.Marker, pages[len(pages)-1].Title, "only a title beyond the property capacity is cut")
}

func TestCreatePrompt_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("prompt page", func(t *testing.T) {
		fc := newFakeClient()
		s := newTestStore(t, fc)
		fc.set(func(f *fakeClient) { f.failCreateAt = 1 })

		_, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "x", Content: "y"})
		assert.ErrorIs(t, err, common.ErrorCreateFailed)
	})

	t.Run("part page rolls back", func(t *testing.T) {
		fc := newFakeClient()
		s := newTestStore(t, fc)
		fc.set(func(f *fakeClient) { f.failCreateAt = 3 })

		_, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "x", Content: longText(5000)})
		assert.ErrorIs(t, err, common.ErrorCreateFailed)
		assert.Empty(t, fc.active(), "prompt page and written parts are archived")
		assert.Empty(t, s.GetPrompts(ctx))
	})
}

func TestGetPrompts_ReassemblesAndSkipsParts(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	long := longText(4500)
	a, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "a", Content: long, Category: "other"})
	require.NoError(t, err)
	b, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "b", Content: "short", Category: "creative", Tags: []string{"gpt"}})
	require.NoError(t, err)

	prompts := s.GetPrompts(ctx)
	require.Len(t, prompts, 2)
	assert.Equal(t, a, prompts[0])
	assert.Equal(t, b, prompts[1])
}

func TestGetPrompts_IncludesFreeTextParentReference(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	_, err := fc.CreatePage(ctx, notion.Fields{Title: ptr("imported"), Content: ptr("body"), ParentID: ptr("legacy")})
	require.NoError(t, err)

	prompts := s.GetPrompts(ctx)
	require.Len(t, prompts, 1)
	assert.Equal(t, "imported", prompts[0].Title)
	assert.Equal(t, []string{}, prompts[0].Tags)
}

func TestColdCacheReloadsParts(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(5000)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "cold", Content: content, Category: "other"})
	require.NoError(t, err)

	before := fc.queryCalls
	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
	assert.Equal(t, before, fc.queryCalls, "warm cache needs no query")

	s.parts.Clear()
	got, err = s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
	assert.Equal(t, before+1, fc.queryCalls)

	restarted := newTestStore(t, fc)
	prompts := restarted.GetPrompts(ctx)
	require.Len(t, prompts, 1)
	assert.Equal(t, content, prompts[0].Content)
}

func TestReassembly_SortsUnorderedResults(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(7000)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "unordered", Content: content, Category: "other"})
	require.NoError(t, err)

	s.parts.Clear()
	fc.set(func(f *fakeClient) { f.reverseResults = true })

	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
}

func TestReassembly_MissingPartIsNeverTruncated(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "broken", Content: longText(5000), Category: "other"})
	require.NoError(t, err)
	_, err = s.CreatePrompt(ctx, models.NewPrompt{Title: "fine", Content: "ok", Category: "other"})
	require.NoError(t, err)

	s.parts.Clear()
	pages := fc.active()
	require.NoError(t, fc.ArchivePage(ctx, pages[2].ID))

	_, err = s.GetPrompt(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	prompts := s.GetPrompts(ctx)
	require.Len(t, prompts, 1)
	assert.Equal(t, "fine", prompts[0].Title)
}

func TestUpdatePrompt_ReplacesParts(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "doc", Content: longText(5000), Category: "other", Tags: []string{"a"}})
	require.NoError(t, err)

	next := strings.Repeat("z", 3000)
	updated, err := s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Content: &next})
	require.NoError(t, err)
	assert.Equal(t, next, updated.Content)
	assert.Equal(t, "doc", updated.Title)
	assert.Equal(t, []string{"a"}, updated.Tags)

	pages := fc.active()
	require.Len(t, pages, 2, "old parts archived, one new part")
	assert.Equal(t, 1, pages[0].PartCount)
	assert.Equal(t, strings.Repeat("z", 1010), pages[1].Content)

	s.parts.Clear()
	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.Content)
}

func TestUpdatePrompt_ShrinkClearsParts(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "doc", Content: longText(5000), Category: "other"})
	require.NoError(t, err)

	_, err = s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Content: ptr("tiny")})
	require.NoError(t, err)

	pages := fc.active()
	require.Len(t, pages, 1)
	assert.Zero(t, pages[0].PartCount)
	assert.NotContains(t, s.parts.parts, p.ID)

	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "tiny", got.Content)
}

func TestUpdatePrompt_MergeKeepsUnspecifiedFields(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(2500)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "old", Content: content, Category: "other", Tags: []string{"a"}})
	require.NoError(t, err)
	partsBefore := fc.active()

	updated, err := s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Title: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, &models.Prompt{ID: p.ID, Title: "new", Content: content, Category: "other", Tags: []string{"a"}, CreatedAt: fixedNow}, updated)
	assert.Len(t, fc.active(), len(partsBefore), "parts untouched without content change")

	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdatePrompt_StagingFailureKeepsOldContent(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(5000)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "doc", Content: content, Category: "other"})
	require.NoError(t, err)

	// Creates so far: 3. The second new part (call 5) fails.
	fc.set(func(f *fakeClient) { f.failCreateAt = 5 })
	_, err = s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Content: ptr(strings.Repeat("n", 5000))})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	assert.Len(t, fc.active(), 3, "staged part archived, old parts kept")
	s.parts.Clear()
	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
}

func TestUpdatePrompt_PageUpdateFailureRollsBack(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(3000)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "doc", Content: content, Category: "other"})
	require.NoError(t, err)

	fc.set(func(f *fakeClient) { f.failUpdate = true })
	_, err = s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Content: ptr(longText(4000))})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Len(t, fc.active(), 2)

	fc.set(func(f *fakeClient) { f.failUpdate = false })
	s.parts.Clear()
	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, content, got.Content)
}

func TestUpdatePrompt_StaleArchiveFailureSurvivesRestart(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "doc", Content: longText(3000), Category: "other"})
	require.NoError(t, err)

	next := strings.Repeat("n", 3500)
	fc.set(func(f *fakeClient) { f.failArchive = true })
	_, err = s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Content: &next})
	require.NoError(t, err)
	require.Len(t, fc.active(), 3, "old part left behind")

	restarted := newTestStore(t, fc)
	prompts := restarted.GetPrompts(ctx)
	require.Len(t, prompts, 1)
	assert.Equal(t, next, prompts[0].Content)
	assert.Len(t, fc.active(), 3, "archive still failing")

	fc.set(func(f *fakeClient) { f.failArchive = false })
	restarted = newTestStore(t, fc)
	prompts = restarted.GetPrompts(ctx)
	require.Len(t, prompts, 1)
	assert.Equal(t, next, prompts[0].Content)
	assert.Len(t, fc.active(), 2, "leftover part archived on read")

	got, err := restarted.GetPrompt(ctx, prompts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, next, got.Content)

	require.True(t, restarted.MoveToTrash(ctx, prompts[0].ID))
	assert.Empty(t, fc.active())
	trash := restarted.GetDeletedPrompts(ctx)
	require.Len(t, trash, 1)
	assert.Equal(t, next, trash[0].Content)
}

func TestUpdatePrompt_FailedRollbackLeftoversAreIgnored(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(3000)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "doc", Content: content, Category: "other"})
	require.NoError(t, err)

	fc.set(func(f *fakeClient) {
		f.failUpdate = true
		f.failArchive = true
	})
	_, err = s.UpdatePrompt(ctx, p.ID, models.PromptPatch{Content: ptr(strings.Repeat("x", 5000))})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	fc.set(func(f *fakeClient) {
		f.failUpdate = false
		f.failArchive = false
	})
	require.Len(t, fc.active(), 4, "staged parts could not be rolled back")

	restarted := newTestStore(t, fc)
	prompts := restarted.GetPrompts(ctx)
	require.Len(t, prompts, 1)
	assert.Equal(t, content, prompts[0].Content)
	assert.Len(t, fc.active(), 4, "parts of a newer generation are not touched by readers")

	final := longText(2500)
	_, err = restarted.UpdatePrompt(ctx, prompts[0].ID, models.PromptPatch{Content: &final})
	require.NoError(t, err)
	assert.Len(t, fc.active(), 2)

	got := newTestStore(t, fc).GetPrompts(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, final, got[0].Content)
}

func TestUnknownIDs(t *testing.T) {
	s := newTestStore(t, newFakeClient())
	ctx := context.Background()

	_, err := s.GetPrompt(ctx, 999999)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.UpdatePrompt(ctx, 999999, models.PromptPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.False(t, s.DeletePrompt(ctx, 999999))
	assert.False(t, s.MoveToTrash(ctx, 999999))
	assert.False(t, s.RestoreFromTrash(ctx, 999999))
	assert.False(t, s.DeleteFromTrash(ctx, 999999))
}

func TestTrashRoundTrip(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()
	content := longText(4200)

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "T", Content: content, Category: "other", Tags: []string{"x"}})
	require.NoError(t, err)

	require.True(t, s.MoveToTrash(ctx, p.ID))
	assert.Empty(t, s.GetPrompts(ctx))
	assert.Empty(t, fc.active(), "prompt and part pages archived")

	trash := s.GetDeletedPrompts(ctx)
	require.Len(t, trash, 1)
	assert.Equal(t, p.ID, trash[0].OriginalID)
	assert.Equal(t, content, trash[0].Content)
	assert.Equal(t, fixedNow.Add(7*24*time.Hour), trash[0].ExpiryDate)

	_, err = s.GetPrompt(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.True(t, s.RestoreFromTrash(ctx, trash[0].ID))
	assert.Empty(t, s.GetDeletedPrompts(ctx))

	prompts := s.GetPrompts(ctx)
	require.Len(t, prompts, 1)
	assert.NotEqual(t, p.ID, prompts[0].ID, "restored prompt gets a new id")
	assert.Equal(t, "T", prompts[0].Title)
	assert.Equal(t, content, prompts[0].Content)
	assert.Equal(t, "other", prompts[0].Category)
	assert.Equal(t, []string{"x"}, prompts[0].Tags)
}

func TestTrash_DeleteAndEmpty(t *testing.T) {
	s := newTestStore(t, newFakeClient())
	ctx := context.Background()

	for _, title := range []string{"a", "b"} {
		p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: title, Content: title, Category: "other"})
		require.NoError(t, err)
		require.True(t, s.MoveToTrash(ctx, p.ID))
	}
	trash := s.GetDeletedPrompts(ctx)
	require.Len(t, trash, 2)

	assert.True(t, s.DeleteFromTrash(ctx, trash[0].ID))
	assert.True(t, s.EmptyTrash(ctx))
	assert.Empty(t, s.GetDeletedPrompts(ctx))
}

func TestBackendFailuresDegrade(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "T", Content: "C", Category: "other"})
	require.NoError(t, err)

	fc.set(func(f *fakeClient) { f.failQuery = true })
	assert.Equal(t, []*models.Prompt{}, s.GetPrompts(ctx))
	fc.set(func(f *fakeClient) { f.failQuery = false })

	fc.set(func(f *fakeClient) { f.failRetrieve = true })
	_, err = s.GetPrompt(ctx, p.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.False(t, s.MoveToTrash(ctx, p.ID))
	fc.set(func(f *fakeClient) { f.failRetrieve = false })

	fc.set(func(f *fakeClient) { f.failArchive = true })
	assert.False(t, s.DeletePrompt(ctx, p.ID))
	assert.False(t, s.MoveToTrash(ctx, p.ID))
	assert.Empty(t, s.GetDeletedPrompts(ctx), "failed move leaves no trash entry")
	fc.set(func(f *fakeClient) { f.failArchive = false })

	got, err := s.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Content)
}

func TestRestoreFromTrash_CreateFailureKeepsEntry(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	p, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "T", Content: "C", Category: "other"})
	require.NoError(t, err)
	require.True(t, s.MoveToTrash(ctx, p.ID))
	entry := s.GetDeletedPrompts(ctx)[0]

	fc.set(func(f *fakeClient) { f.failCreateAt = f.createCalls + 1 })
	assert.False(t, s.RestoreFromTrash(ctx, entry.ID))
	assert.Len(t, s.GetDeletedPrompts(ctx), 1)
}

func TestUpdateNotionSettings(t *testing.T) {
	first := newFakeClient()
	second := newFakeClient()
	var built []string

	s, err := New(context.Background(), Options{
		Token:      "tok-1",
		DatabaseID: "db-1",
		Factory: func(token, db string) (notion.Client, error) {
			built = append(built, token+"/"+db)
			switch token {
			case "tok-1":
				return first, nil
			case "tok-2":
				return second, nil
			default:
				return nil, errors.New("bad token")
			}
		},
		Now: func() time.Time { return fixedNow },
	}, logging.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	old, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "old", Content: "x", Category: "other"})
	require.NoError(t, err)

	err = s.UpdateNotionSettings(ctx, "bad", "db-x")
	assert.Error(t, err)
	tok, _ := s.GetSetting(ctx, common.SettingNotionAPIToken)
	assert.Equal(t, "tok-1", tok, "failed rotation keeps the old settings")

	require.NoError(t, s.UpdateNotionSettings(ctx, "tok-2", "db-2"))
	assert.Equal(t, []string{"tok-1/db-1", "bad/db-x", "tok-2/db-2"}, built)
	assert.Len(t, second.schemaUpdates, 1, "new database is reconciled")

	tok, _ = s.GetSetting(ctx, common.SettingNotionAPIToken)
	db, _ := s.GetSetting(ctx, common.SettingNotionDatabaseID)
	assert.Equal(t, "tok-2", tok)
	assert.Equal(t, "db-2", db)

	_, err = s.GetPrompt(ctx, old.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	fresh, err := s.CreatePrompt(ctx, models.NewPrompt{Title: "new", Content: "y", Category: "other"})
	require.NoError(t, err)
	assert.Greater(t, fresh.ID, old.ID, "integer ids keep increasing across databases")
	assert.Len(t, second.active(), 1)
}

func TestUsersAndSettingsStayLocal(t *testing.T) {
	fc := newFakeClient()
	s := newTestStore(t, fc)
	ctx := context.Background()

	admin, err := s.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Password)

	u, err := s.CreateUser(ctx, models.NewUser{Username: "bob", Password: "pw"})
	require.NoError(t, err)
	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)

	updated, err := s.UpdateUser(ctx, u.ID, "robert", "pw2")
	require.NoError(t, err)
	assert.Equal(t, "robert", updated.Username)

	s.SetSetting(ctx, "theme", "dark")
	v, err := s.GetSetting(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", v)

	assert.Empty(t, fc.active(), "nothing is written to the database")
}
