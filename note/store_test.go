package note

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/notenest/database"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*Store, *database.Connection, *clock) {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "notes.db")
	conn := database.New(cfg)
	t.Cleanup(func() { _ = conn.Close() })
	c := &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	return NewStore(conn, WithClock(c.now)), conn, c
}

func TestStore_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	store, _, c := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, New("n1", "https://example.com").WithTitle("Example").WithTags("go", "sqlite")))

	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	n := notes[0]
	assert.Equal(t, "n1", n.ID)
	assert.Equal(t, "https://example.com", n.URL)
	require.NotNil(t, n.Title)
	assert.Equal(t, "Example", *n.Title)
	assert.Nil(t, n.Summary)
	assert.Equal(t, []string{"go", "sqlite"}, n.Tags)
	assert.Equal(t, c.t, n.CreatedAt)
	assert.Equal(t, c.t, n.UpdatedAt)
	assert.Equal(t, Pending, n.SyncStatus)
	assert.Equal(t, 1, n.Version)
	assert.False(t, n.IsDeleted)
	assert.Nil(t, n.DeletedAt)
}

func TestStore_UpsertOverwritePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	store, _, c := newTestStore(t)

	created := c.t
	require.NoError(t, store.Upsert(ctx, New("n1", "https://a.example").WithSummary("first").WithTags("x")))
	c.advance(time.Minute)
	require.NoError(t, store.Upsert(ctx, New("n1", "https://b.example")))

	n, ok, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "https://b.example", n.URL)
	assert.Equal(t, created, n.CreatedAt)
	assert.Equal(t, c.t, n.UpdatedAt)
	assert.Nil(t, n.Summary, "omitted fields are reset, not preserved")
	assert.Equal(t, []string{}, n.Tags)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestStore_UpsertCreatedAtIgnoredOnUpdate(t *testing.T) {
	ctx := context.Background()
	store, _, c := newTestStore(t)

	original := c.t
	require.NoError(t, store.Upsert(ctx, New("n1", "https://a.example")))
	c.advance(time.Hour)
	u := New("n1", "https://a.example")
	u.CreatedAt = c.t.Add(24 * time.Hour)
	require.NoError(t, store.Upsert(ctx, u))

	n, ok, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, original, n.CreatedAt)
}

func TestStore_CarryForward(t *testing.T) {
	ctx := context.Background()
	store, _, c := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, New("n1", "https://a.example").WithTitle("t").WithSummary("s").WithTags("a", "b")))
	existing, ok, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	require.True(t, ok)

	c.advance(time.Second)
	u := From(existing).WithTitle("renamed")
	u.Version = existing.Version + 1
	require.NoError(t, store.Upsert(ctx, u))

	n, ok, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "renamed", *n.Title)
	assert.Equal(t, "s", *n.Summary)
	assert.Equal(t, []string{"a", "b"}, n.Tags)
	assert.Equal(t, 2, n.Version)
	assert.Equal(t, existing.CreatedAt, n.CreatedAt)
	assert.True(t, n.UpdatedAt.After(existing.UpdatedAt))
}

func TestStore_ListOrdersByUpdatedAtDesc(t *testing.T) {
	ctx := context.Background()
	store, _, c := newTestStore(t)

	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, store.Upsert(ctx, New(id, "https://"+id+".example")))
		c.advance(time.Millisecond)
	}

	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "t3", notes[0].ID)
	assert.Equal(t, "t2", notes[1].ID)
	assert.Equal(t, "t1", notes[2].ID)

	c.advance(time.Millisecond)
	require.NoError(t, store.Upsert(ctx, New("t1", "https://t1.example")))
	notes, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", notes[0].ID)
}

func TestStore_SoftDeletedHidden(t *testing.T) {
	ctx := context.Background()
	store, conn, _ := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, New("live", "https://live.example")))
	db, err := conn.Acquire(ctx)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO notes (id, url, created_at, updated_at, is_deleted, deleted_at)
VALUES ('gone', 'https://gone.example', '2024-01-01T00:00:00.000Z', '2030-01-01T00:00:00.000Z', 1, '2030-01-01T00:00:00.000Z')`)
	require.NoError(t, err)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "live", notes[0].ID)

	_, ok, err := store.Get(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UpsertDeletedViaBuilder(t *testing.T) {
	ctx := context.Background()
	store, _, c := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, New("n1", "https://a.example")))
	existing, _, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	u := From(existing)
	u.IsDeleted = true
	deletedAt := c.t
	u.DeletedAt = &deletedAt
	require.NoError(t, store.Upsert(ctx, u))

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestStore_UpsertErrors(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	err := store.Upsert(ctx, New("", "https://a.example"))
	assert.EqualError(t, err, "note: id is empty")

	err = store.Upsert(ctx, New("n1", ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOT NULL")

	notes, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestStore_UpsertRejectsInvalidFields(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	var testCases = []struct {
		description string
		upsert      func(u Upsert) Upsert
		expectErr   string
	}{
		{description: "unknown status", upsert: func(u Upsert) Upsert { u.SyncStatus = "bogus"; return u }, expectErr: `note: invalid sync status "bogus"`},
		{description: "negative version", upsert: func(u Upsert) Upsert { u.Version = -5; return u }, expectErr: "note: invalid version -5"},
		{description: "conflict status", upsert: func(u Upsert) Upsert { u.SyncStatus = Conflict; return u }},
		{description: "synced status", upsert: func(u Upsert) Upsert { u.SyncStatus = Synced; u.Version = 7; return u }},
	}
	for _, testCase := range testCases {
		err := store.Upsert(ctx, testCase.upsert(New("n1", "https://a.example")))
		if testCase.expectErr != "" {
			assert.EqualError(t, err, testCase.expectErr, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}

	n, ok, err := store.Get(ctx, "n1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Synced, n.SyncStatus)
	assert.Equal(t, 7, n.Version)
}

func TestStore_ToleratesForeignTimestamps(t *testing.T) {
	ctx := context.Background()
	store, conn, _ := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, New("valid", "https://valid.example")))
	db, err := conn.Acquire(ctx)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO notes (id, url, created_at, updated_at, deleted_at)
VALUES ('sqlite', 'https://sqlite.example', '2024-01-01 10:00:00', '2024-01-02', NULL),
       ('garbage', 'https://garbage.example', 'yesterday', 'soon', 'never')`)
	require.NoError(t, err)

	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	byID := map[string]Note{}
	for _, n := range notes {
		byID[n.ID] = n
	}
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), byID["sqlite"].CreatedAt)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), byID["sqlite"].UpdatedAt)
	assert.True(t, byID["garbage"].CreatedAt.IsZero())
	assert.True(t, byID["garbage"].UpdatedAt.IsZero())
	assert.Nil(t, byID["garbage"].DeletedAt)
	assert.False(t, byID["valid"].CreatedAt.IsZero())
}

func TestStore_ListBreaksTiesByID(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, store.Upsert(ctx, New(id, "https://"+id+".example")))
	}
	notes, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "a", notes[0].ID)
	assert.Equal(t, "b", notes[1].ID)
	assert.Equal(t, "c", notes[2].ID)
}

func TestStore_ListEmpty(t *testing.T) {
	store, _, _ := newTestStore(t)
	notes, err := store.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestStore_ToleratesMalformedRows(t *testing.T) {
	ctx := context.Background()
	store, conn, _ := newTestStore(t)

	db, err := conn.Acquire(ctx)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO notes (id, url, tags, created_at, updated_at, sync_status, version)
VALUES ('raw', 'https://raw.example', 'not json', '2024-01-01T00:00:00.000Z', '2024-01-01T00:00:00.000Z', NULL, NULL)`)
	require.NoError(t, err)

	n, ok, err := store.Get(ctx, "raw")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{}, n.Tags)
	assert.Equal(t, Synced, n.SyncStatus)
	assert.Equal(t, 1, n.Version)
}

func TestStore_Query(t *testing.T) {
	ctx := context.Background()
	store, _, c := newTestStore(t)

	fixtures := []struct {
		id   string
		tags []string
	}{
		{"a", []string{"go"}},
		{"b", []string{"go", "db"}},
		{"c", []string{"db"}},
		{"d", []string{"go", "db", "web"}},
	}
	titles := map[string]string{"a": "Gopher notes", "b": "the gopher way", "d": "100% web"}
	summaries := map[string]string{"c": "Storage engines", "d": "1000 widgets"}
	for _, f := range fixtures {
		u := New(f.id, "https://"+f.id+".example").WithTags(f.tags...)
		if title, ok := titles[f.id]; ok {
			u = u.WithTitle(title)
		}
		if summary, ok := summaries[f.id]; ok {
			u = u.WithSummary(summary)
		}
		require.NoError(t, store.Upsert(ctx, u))
		c.advance(time.Millisecond)
	}

	var testCases = []struct {
		description string
		filter      Filter
		expect      []string
	}{
		{description: "no filter", filter: Filter{}, expect: []string{"d", "c", "b", "a"}},
		{description: "single tag", filter: Filter{Tags: []string{"go"}}, expect: []string{"d", "b", "a"}},
		{description: "all tags required", filter: Filter{Tags: []string{"go", "db"}}, expect: []string{"d", "b"}},
		{description: "tags trimmed", filter: Filter{Tags: []string{" web ", ""}}, expect: []string{"d"}},
		{description: "unknown tag", filter: Filter{Tags: []string{"none"}}, expect: []string{}},
		{description: "limit", filter: Filter{Limit: 2}, expect: []string{"d", "c"}},
		{description: "offset", filter: Filter{Offset: 3}, expect: []string{"a"}},
		{description: "limit and offset", filter: Filter{Limit: 1, Offset: 1}, expect: []string{"c"}},
		{description: "tag with paging", filter: Filter{Tags: []string{"go"}, Limit: 1, Offset: 1}, expect: []string{"b"}},
		{description: "offset past end", filter: Filter{Offset: 10}, expect: []string{}},
		{description: "text in title", filter: Filter{Text: "GOPHER"}, expect: []string{"b", "a"}},
		{description: "text in summary", filter: Filter{Text: "storage"}, expect: []string{"c"}},
		{description: "text with tag", filter: Filter{Text: "gopher", Tags: []string{"db"}}, expect: []string{"b"}},
		{description: "text wildcard escaped", filter: Filter{Text: "100%"}, expect: []string{"d"}},
		{description: "text no match", filter: Filter{Text: "rust"}, expect: []string{}},
	}

	for _, testCase := range testCases {
		notes, err := store.Query(ctx, testCase.filter)
		if !assert.NoError(t, err, testCase.description) {
			continue
		}
		ids := make([]string, 0, len(notes))
		for _, n := range notes {
			ids = append(ids, n.ID)
		}
		assert.Equal(t, testCase.expect, ids, testCase.description)
	}
}

func TestStore_GetAbsent(t *testing.T) {
	store, _, _ := newTestStore(t)
	_, ok, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = store.Get(context.Background(), "")
	assert.Error(t, err)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, NormalizeTags([]string{" a", "", "b ", "  "}))
	assert.Equal(t, []string{}, NormalizeTags(nil))
}
