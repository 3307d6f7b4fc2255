// Package views holds the screen initializers: the per-page code that runs
// after a screen's markup lands in the container and fills it from the
// session, the backend, or the request's query parameters.
package views

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/content"
	"github.com/ziadkadry99/storyshelf/internal/flipbook"
	"github.com/ziadkadry99/storyshelf/internal/nav"
)

// Screens with initializers.
const (
	Dashboard    = "dashboard"
	Login        = "login"
	Library      = "library"
	Reader       = "reader"
	Worksheets   = "worksheets"
	Subscription = "subscription"
	Profile      = "profile"
	Flipbook     = "flipbook"
)

// elementWait bounds how long an initializer polls for its elements.
const elementWait = time.Second

// Deps are the shared values initializers read from.
type Deps struct {
	Home   string
	Shelf  flipbook.Shelf
	Logger *log.Logger
}

type views struct {
	Deps
}

// Routes returns the route table for every screen that has an initializer.
func Routes(d Deps) nav.Routes {
	if d.Home == "" {
		d.Home = nav.DefaultHome
	}
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	v := &views{Deps: d}
	return nav.Routes{
		Dashboard:    v.dashboard,
		Login:        v.login,
		Library:      v.library,
		Reader:       v.reader,
		Worksheets:   v.worksheetCatalog,
		Subscription: v.subscription,
		Profile:      v.profile,
		Flipbook:     v.flipbookViewer,
	}
}

type queryKey struct{}

// WithQuery attaches the request's query parameters to ctx.
func WithQuery(ctx context.Context, q url.Values) context.Context {
	return context.WithValue(ctx, queryKey{}, q)
}

// QueryFrom returns the query parameters attached to ctx, never nil.
func QueryFrom(ctx context.Context) url.Values {
	if q, ok := ctx.Value(queryKey{}).(url.Values); ok && q != nil {
		return q
	}
	return url.Values{}
}

func queryInt(ctx context.Context, key string) (int64, bool) {
	n, err := strconv.ParseInt(QueryFrom(ctx).Get(key), 10, 64)
	return n, err == nil
}

func storeFor(scope auth.Scope) *content.Store {
	return content.NewStore(scope.Client)
}

func userID(scope auth.Scope) string {
	if u := scope.User(); u != nil {
		return u.ID
	}
	return ""
}
