package views

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/dom"
	"github.com/ziadkadry99/storyshelf/internal/flipbook"
	"github.com/ziadkadry99/storyshelf/internal/logging"
	"github.com/ziadkadry99/storyshelf/internal/nav"
	"github.com/ziadkadry99/storyshelf/internal/screens"
	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

var screenFS = fstest.MapFS{
	"home.html":         {Data: []byte(`<h1>Home</h1>`)},
	"login.html":        {Data: []byte(`<form id="loginForm"></form>`)},
	"dashboard.html":    {Data: []byte(`<p>Hi <span id="userName"></span> (<span id="userEmail"></span>)</p>`)},
	"library.html":      {Data: []byte(`<ul id="bookList"></ul><ul id="chapterList"></ul>`)},
	"reader.html":       {Data: []byte(`<h2 id="chapterTitle"></h2><div id="lockedNotice" hidden>Locked</div><article id="chapterContent"></article>`)},
	"subscription.html": {Data: []byte(`<p id="subscriptionStatus"></p>`)},
	"profile.html":      {Data: []byte(`<p id="profileName"></p><p id="profileEmail"></p>`)},
	"flipbook.html":     {Data: []byte(`<ul id="flipbookBooks"></ul><h2 id="flipbookTitle"></h2><div id="flipbookViewer"></div><span id="pageIndicator"></span>`)},
	"worksheets.html": {Data: []byte(`
<select id="chapterSelect"></select><select id="ageSelect"></select><select id="topicSelect"></select>
<span id="statCount"></span><span id="statSubjects"></span><span id="statAvgTime"></span>
<div id="worksheetList"></div><p id="emptyState" hidden>No worksheets match.</p>`)},
}

var shelf = flipbook.Shelf{
	{Title: "Tidepools", URL: "/books/tidepools.pdf"},
	{Title: "Deep Water", URL: "/books/deep.pdf", Locked: true},
}

// backend answers PostgREST selects keyed by "table?col=val".
func backend(t *testing.T, rows map[string]any) *supabase.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
		for _, col := range []string{"id", "book_id", "user_id"} {
			if v := r.URL.Query().Get(col); v != "" {
				key += "?" + col + "=" + strings.TrimPrefix(v, "eq.")
			}
		}
		if key == "books" && rows["books"] == nil {
			http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
			return
		}
		out, ok := rows[key]
		if !ok {
			out = []any{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	}))
	t.Cleanup(srv.Close)
	client, err := supabase.New(supabase.Config{URL: srv.URL, AnonKey: "anon"})
	require.NoError(t, err)
	return client
}

var rows = map[string]any{
	"books": []map[string]any{{"id": 1, "name": "Tidepools"}},
	"chapters?book_id=1": []map[string]any{
		{"id": 10, "title": "Low Tide", "chapter_num": 1, "free": true},
		{"id": 11, "title": "High Tide", "chapter_num": 2},
	},
	"chapters?id=10": []map[string]any{{"id": 10, "title": "Low Tide", "chapter_num": 1, "free": true, "content": "Crabs *scuttle*."}},
	"chapters?id=11": []map[string]any{{"id": 11, "title": "High Tide", "chapter_num": 2, "content": "Members only."}},
	"chapters?id=12": []map[string]any{{"id": 12, "chapter_num": 3, "free": true, "released_at": "2099-01-01"}},
	"subscriptions?user_id=sub":   []map[string]any{{"id": 1, "status": "active", "end_date": "2099-01-01T00:00:00Z"}},
	"subscriptions?user_id=never": []map[string]any{{"id": 2, "status": "active"}},
}

type request struct {
	query  string
	client *supabase.Client
	user   *supabase.User
}

func show(t *testing.T, id string, req request) (*dom.Page, *nav.Router) {
	t.Helper()
	q, err := url.ParseQuery(req.query)
	require.NoError(t, err)
	scope := auth.Scope{Client: req.client}
	if req.user != nil {
		scope.Session = &supabase.Session{User: req.user}
	}
	ctx := auth.WithScope(WithQuery(context.Background(), q), scope)

	page := dom.New()
	loader := screens.NewLoader(&screens.FSFetcher{FS: screenFS}, true, logging.Discard())
	routes := Routes(Deps{Shelf: shelf, Logger: logging.Discard()})
	router := nav.NewRouter(page, loader, routes, logging.Discard())
	router.Navigate(ctx, id)
	return page, router
}

func text(t *testing.T, page *dom.Page, id string) string {
	t.Helper()
	s, err := page.Text(id)
	require.NoError(t, err)
	return strings.TrimSpace(s)
}

func inner(t *testing.T, page *dom.Page, id string) string {
	t.Helper()
	s, err := page.InnerHTML(id)
	require.NoError(t, err)
	return s
}

func hidden(page *dom.Page, id string) bool {
	_, ok := page.Attr(id, "hidden")
	return ok
}

var ada = &supabase.User{ID: "sub", Email: "ada@example.com", UserMetadata: map[string]any{"name": "Ada"}}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ada", DisplayName(ada))
	assert.Equal(t, "grace", DisplayName(&supabase.User{Email: "grace@example.com"}))
	assert.Equal(t, "User", DisplayName(&supabase.User{}))
	assert.Equal(t, "User", DisplayName(nil))
}

func TestRoutesCoverInitializedScreens(t *testing.T) {
	routes := Routes(Deps{})
	for _, id := range []string{Dashboard, Login, Library, Reader, Worksheets, Subscription, Profile, Flipbook} {
		assert.NotNil(t, routes[id], id)
	}
	assert.Nil(t, routes["home"])
}

func TestQueryFromDefaultsEmpty(t *testing.T) {
	assert.NotNil(t, QueryFrom(context.Background()))
}

func TestDashboardFillsUser(t *testing.T) {
	page, _ := show(t, Dashboard, request{user: ada})
	assert.Equal(t, "Ada", text(t, page, "userName"))
	assert.Equal(t, "ada@example.com", text(t, page, "userEmail"))
	assert.Empty(t, page.Banner())

	page, _ = show(t, Dashboard, request{})
	assert.Empty(t, text(t, page, "userName"))
}

func TestLoginRedirectsSignedInUser(t *testing.T) {
	page, router := show(t, Login, request{user: ada})
	assert.Equal(t, Dashboard, router.Current())
	assert.Equal(t, "#dashboard", page.Hash())
	assert.Equal(t, "Ada", text(t, page, "userName"))

	_, router = show(t, Login, request{})
	assert.Equal(t, Login, router.Current())
}

func TestLibrary(t *testing.T) {
	client := backend(t, rows)

	page, _ := show(t, Library, request{client: client})
	assert.Contains(t, inner(t, page, "bookList"), `href="/p/library?book=1"`)
	assert.Contains(t, text(t, page, "bookList"), "Tidepools")
	assert.Empty(t, inner(t, page, "chapterList"))

	page, _ = show(t, Library, request{client: client, query: "book=1"})
	chapters := inner(t, page, "chapterList")
	assert.Contains(t, chapters, `href="/p/reader?chapter=10"`)
	assert.Contains(t, chapters, "High Tide")
	assert.Equal(t, 1, strings.Count(chapters, "Free"))

	page, _ = show(t, Library, request{})
	assert.Equal(t, NoBooksText, text(t, page, "bookList"))
}

func TestLibraryBackendFailureShowsBanner(t *testing.T) {
	page, router := show(t, Library, request{client: backend(t, map[string]any{})})
	assert.Equal(t, nav.WarningText, page.Banner())
	assert.Equal(t, Library, router.Current())
}

func TestReaderGates(t *testing.T) {
	client := backend(t, rows)

	page, _ := show(t, Reader, request{client: client, query: "chapter=10"})
	assert.Equal(t, "Low Tide", text(t, page, "chapterTitle"))
	assert.Contains(t, inner(t, page, "chapterContent"), "<em>scuttle</em>")
	assert.True(t, hidden(page, "lockedNotice"))

	page, _ = show(t, Reader, request{client: client, query: "chapter=11", user: &supabase.User{ID: "nobody"}})
	assert.Equal(t, LockedChapterText, text(t, page, "chapterContent"))
	assert.False(t, hidden(page, "lockedNotice"))

	page, _ = show(t, Reader, request{client: client, query: "chapter=11", user: ada})
	assert.Contains(t, text(t, page, "chapterContent"), "Members only.")
	assert.True(t, hidden(page, "lockedNotice"))

	page, _ = show(t, Reader, request{client: client, query: "chapter=12", user: ada})
	assert.Equal(t, UnreleasedText, text(t, page, "chapterContent"))
	assert.Equal(t, "Chapter 3", text(t, page, "chapterTitle"))

	page, _ = show(t, Reader, request{client: client})
	assert.Equal(t, ChooseChapterText, text(t, page, "chapterContent"))

	page, _ = show(t, Reader, request{client: client, query: "chapter=99"})
	assert.Equal(t, nav.WarningText, page.Banner())
}

func TestWorksheets(t *testing.T) {
	page, _ := show(t, Worksheets, request{query: "subject=ELA"})
	assert.Equal(t, 3, strings.Count(inner(t, page, "worksheetList"), `class="card"`))
	assert.Equal(t, "3", text(t, page, "statCount"))
	assert.Equal(t, "1", text(t, page, "statSubjects"))
	assert.Equal(t, "24 min", text(t, page, "statAvgTime"))
	assert.True(t, hidden(page, "emptyState"))

	chapters := inner(t, page, "chapterSelect")
	assert.True(t, strings.HasPrefix(chapters, `<option value="all">All</option>`), chapters)
	assert.Contains(t, chapters, `<option value="Vocabulary">Vocabulary</option>`)
	assert.Contains(t, inner(t, page, "ageSelect"), `<option value="8-9">`)

	page, _ = show(t, Worksheets, request{query: "search=astronomy"})
	assert.Empty(t, strings.TrimSpace(inner(t, page, "worksheetList")))
	assert.False(t, hidden(page, "emptyState"))
	assert.Equal(t, "0", text(t, page, "statCount"))
	assert.Equal(t, "0 min", text(t, page, "statAvgTime"))
}

func TestSubscription(t *testing.T) {
	client := backend(t, rows)

	page, _ := show(t, Subscription, request{client: client})
	assert.Equal(t, SubscriptionSignedOut, text(t, page, "subscriptionStatus"))

	page, _ = show(t, Subscription, request{client: client, user: ada})
	assert.Equal(t, SubscriptionActive+" It renews on 2099-01-01.", text(t, page, "subscriptionStatus"))

	page, _ = show(t, Subscription, request{client: client, user: &supabase.User{ID: "never"}})
	assert.Equal(t, SubscriptionActive, text(t, page, "subscriptionStatus"))

	page, _ = show(t, Subscription, request{client: client, user: &supabase.User{ID: "nobody"}})
	assert.Equal(t, SubscriptionNone, text(t, page, "subscriptionStatus"))
}

func TestProfile(t *testing.T) {
	page, _ := show(t, Profile, request{user: ada})
	assert.Equal(t, "Ada", text(t, page, "profileName"))
	assert.Equal(t, "ada@example.com", text(t, page, "profileEmail"))

	page, _ = show(t, Profile, request{})
	assert.Empty(t, text(t, page, "profileName"))
}

func TestFlipbook(t *testing.T) {
	page, router := show(t, Flipbook, request{})
	books := inner(t, page, "flipbookBooks")
	assert.Contains(t, books, "Tidepools")
	assert.NotContains(t, books, "Deep Water")
	assert.Equal(t, Flipbook, router.Current())

	page, _ = show(t, Flipbook, request{query: "book=Tidepools&page=4&total=7"})
	src, ok := page.Attr("flipbookViewer", "data-src")
	assert.True(t, ok)
	assert.Equal(t, "/books/tidepools.pdf", src)
	assert.Equal(t, "Tidepools", text(t, page, "flipbookTitle"))
	assert.Equal(t, "Page 3-4", text(t, page, "pageIndicator"))

	page, router = show(t, Flipbook, request{query: "book=Deep+Water"})
	assert.Equal(t, "home", router.Current())
	assert.Equal(t, "#home", page.Hash())
}
