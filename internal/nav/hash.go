package nav

import (
	"context"
	"strings"

	"github.com/ziadkadry99/storyshelf/internal/dom"
	"github.com/ziadkadry99/storyshelf/internal/screens"
)

// DefaultHome is shown for an empty or unusable hash.
const DefaultHome = "home"

// HashListener turns address bar changes and nav clicks into navigations.
type HashListener struct {
	router *Router
	home   string
}

// NewHashListener returns a listener that falls back to home.
func NewHashListener(router *Router, home string) *HashListener {
	if home == "" {
		home = DefaultHome
	}
	return &HashListener{router: router, home: home}
}

// Attach subscribes to hash changes on page. ctx is used for every navigation
// the subscription triggers.
func (h *HashListener) Attach(ctx context.Context, page *dom.Page) {
	page.OnHashChange(func(hash string) {
		id := h.Resolve(hash)
		if id == h.router.Current() {
			return
		}
		h.router.Navigate(ctx, id)
	})
}

// InitFromHash renders the screen named by the page's current hash.
func (h *HashListener) InitFromHash(ctx context.Context) {
	h.router.Navigate(ctx, h.Resolve(h.router.Page().Hash()))
}

// Resolve maps a raw hash to the identifier to show. Characters outside the
// identifier grammar are dropped; nothing left means home.
func (h *HashListener) Resolve(hash string) string {
	token := strings.TrimPrefix(hash, "#")
	if token == "" {
		return h.home
	}
	if token = screens.SanitizeToken(token); token == "" {
		return h.home
	}
	return token
}

// Click handles a click on a [data-page] link. A different page goes through
// the address bar; the page already in the address bar is reloaded.
func (h *HashListener) Click(ctx context.Context, id string) {
	if id == "" {
		return
	}
	page := h.router.Page()
	if strings.TrimPrefix(page.Hash(), "#") != id {
		page.SetHash(id)
		return
	}
	h.router.Navigate(ctx, id)
}
