package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeRest answers PostgREST selects from canned tables keyed by
// "table?filter".
type fakeRest struct {
	t       *testing.T
	rows    map[string]any
	upserts []map[string]any
}

func (f *fakeRest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodPost {
		var row map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&row))
		f.upserts = append(f.upserts, row)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{row})
		return
	}
	key := table
	for _, col := range []string{"id", "book_id", "user_id"} {
		if v := r.URL.Query().Get(col); v != "" {
			key += "?" + col + "=" + strings.TrimPrefix(v, "eq.")
		}
	}
	rows, ok := f.rows[key]
	if !ok {
		rows = []any{}
	}
	_ = json.NewEncoder(w).Encode(rows)
}

func newTestStore(t *testing.T, rows map[string]any) (*Store, *fakeRest) {
	t.Helper()
	fake := &fakeRest{t: t, rows: rows}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	client, err := supabase.New(supabase.Config{URL: srv.URL, AnonKey: "anon"})
	require.NoError(t, err)
	s := NewStore(client)
	s.now = func() time.Time { return fixedNow }
	return s, fake
}

func strp(s string) *string { return &s }

var library = map[string]any{
	"books": []map[string]any{
		{"id": 2, "name": "", "created_at": "2026-02-01T00:00:00Z"},
		{"id": 1, "name": "Tidepools", "created_at": "2026-01-01T00:00:00Z"},
	},
	"chapters?book_id=1": []map[string]any{
		{"id": 10, "title": "Low Tide", "chapter_num": 1, "free": true},
		{"id": 11, "title": "", "chapter_num": 2, "free": false},
	},
	"chapters?id=10": []map[string]any{
		{"id": 10, "book_id": 1, "title": "Low Tide", "chapter_num": 1, "free": true, "content": "# Low Tide\n\nCrabs <script>alert(1)</script> scuttle."},
	},
	"chapters?id=11": []map[string]any{
		{"id": 11, "book_id": 1, "title": "", "chapter_num": 2, "free": false, "content": "Members only."},
	},
	"chapters?id=12": []map[string]any{
		{"id": 12, "book_id": 1, "chapter_num": 3, "free": true, "released_at": "2026-06-01T00:00:00Z"},
	},
	"subscriptions?user_id=sub": []map[string]any{{"id": 1, "status": "active", "end_date": nil}},
	"subscriptions?user_id=lapsed": []map[string]any{{"id": 2, "status": "active", "end_date": "2026-02-01T00:00:00Z"}},
	"subscriptions?user_id=cancelled": []map[string]any{{"id": 3, "status": "cancelled", "end_date": nil}},
	"profiles?user_id=sub": map[string]any{"user_id": "sub", "name": "Sam"},
}

func TestBooksAndChapters(t *testing.T) {
	s, _ := newTestStore(t, library)
	ctx := context.Background()

	books, err := s.Books(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Untitled", books[0].Title)
	assert.Equal(t, "Tidepools", books[1].Title)

	chapters, err := s.Chapters(ctx, 1)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Low Tide", chapters[0].Title)
	assert.Equal(t, "Chapter 2", chapters[1].Title)
	assert.True(t, chapters[0].IsFree)

	_, err = s.ChapterMeta(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNilClientIsEmpty(t *testing.T) {
	s := NewStore(nil)
	books, err := s.Books(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.False(t, s.HasActiveSubscription(context.Background(), "sub"))
	assert.Equal(t, Subscription{}, s.SubscriptionStatus(context.Background(), "sub"))
}

func TestSubscriptionStatus(t *testing.T) {
	s, _ := newTestStore(t, library)
	ctx := context.Background()

	assert.True(t, s.HasActiveSubscription(ctx, "sub"))
	assert.False(t, s.HasActiveSubscription(ctx, "lapsed"))
	assert.False(t, s.HasActiveSubscription(ctx, "cancelled"))
	assert.False(t, s.HasActiveSubscription(ctx, "nobody"))
	assert.False(t, s.HasActiveSubscription(ctx, ""))

	st := s.SubscriptionStatus(ctx, "lapsed")
	assert.False(t, st.Active)
	require.NotNil(t, st.Status)
	assert.Equal(t, "active", *st.Status)
	assert.Equal(t, "2026-02-01T00:00:00Z", *st.EndDate)
}

func TestActivateSubscription(t *testing.T) {
	s, fake := newTestStore(t, library)
	end := fixedNow.AddDate(0, 1, 0)

	require.NoError(t, s.ActivateSubscription(context.Background(), "u1", &end))
	require.Len(t, fake.upserts, 1)
	assert.Equal(t, "u1", fake.upserts[0]["user_id"])
	assert.Equal(t, "active", fake.upserts[0]["status"])
	assert.Equal(t, "2026-04-01T12:00:00Z", fake.upserts[0]["end_date"])

	assert.ErrorIs(t, s.ActivateSubscription(context.Background(), "", nil), ErrNotSignedIn)
}

func TestGateFor(t *testing.T) {
	future := strp("2026-12-01")
	past := strp("2025-12-01T00:00:00Z")

	assert.Equal(t, GateFree, GateFor(Chapter{IsFree: true}, false, fixedNow))
	assert.Equal(t, GateFree, GateFor(Chapter{IsFree: true, ReleasedAt: past}, false, fixedNow))
	assert.Equal(t, GateLocked, GateFor(Chapter{}, false, fixedNow))
	assert.Equal(t, GateUnlocked, GateFor(Chapter{}, true, fixedNow))
	assert.Equal(t, GateUnreleased, GateFor(Chapter{IsFree: true, ReleasedAt: future}, true, fixedNow))
	assert.Equal(t, GateLocked, GateFor(Chapter{ReleasedAt: strp("soon")}, false, fixedNow))

	assert.True(t, GateFree.Readable())
	assert.True(t, GateUnlocked.Readable())
	assert.False(t, GateLocked.Readable())
	assert.False(t, GateUnreleased.Readable())
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html, err := RenderMarkdown("# Title\n\n<a href=\"javascript:x()\" onclick=\"y()\">link</a>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, "<table>")
	assert.NotContains(t, html, "javascript:")
	assert.NotContains(t, html, "onclick")
}

func TestRead(t *testing.T) {
	s, _ := newTestStore(t, library)
	ctx := context.Background()

	free, err := s.Read(ctx, 10, "")
	require.NoError(t, err)
	assert.Equal(t, GateFree, free.Gate)
	assert.Contains(t, free.HTML, "Low Tide")
	assert.NotContains(t, free.HTML, "<script")

	locked, err := s.Read(ctx, 11, "nobody")
	require.NoError(t, err)
	assert.Equal(t, GateLocked, locked.Gate)
	assert.Empty(t, locked.HTML)

	unlocked, err := s.Read(ctx, 11, "sub")
	require.NoError(t, err)
	assert.Equal(t, GateUnlocked, unlocked.Gate)
	assert.Contains(t, unlocked.HTML, "Members only.")

	soon, err := s.Read(ctx, 12, "sub")
	require.NoError(t, err)
	assert.Equal(t, GateUnreleased, soon.Gate)
	assert.Equal(t, "Chapter 3", soon.Chapter.Title)
}

func TestRoutes(t *testing.T) {
	s, _ := newTestStore(t, library)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			scope := auth.Scope{Client: s.db}
			if req.Header.Get("X-Test-User") != "" {
				scope.Session = &supabase.Session{User: &supabase.User{ID: req.Header.Get("X-Test-User")}}
			}
			next.ServeHTTP(w, req.WithContext(auth.WithScope(req.Context(), scope)))
		})
	})
	RegisterRoutes(r)

	get := func(path, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/api/books", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var books []Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &books))
	assert.Len(t, books, 2)

	assert.Equal(t, http.StatusBadRequest, get("/api/books/abc/chapters", "").Code)
	assert.Equal(t, http.StatusNotFound, get("/api/chapters/99", "").Code)

	w = get("/api/chapters/11", "sub")
	require.Equal(t, http.StatusOK, w.Code)
	var view ChapterView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, GateUnlocked, view.Gate)

	assert.Equal(t, http.StatusUnauthorized, get("/api/profile", "").Code)
	w = get("/api/profile", "sub")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Sam"`)

	w = get("/api/subscription", "")
	assert.JSONEq(t, `{"active":false,"endDate":null,"status":null}`, w.Body.String())
}
