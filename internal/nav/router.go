// Package nav routes page identifiers to screens: it swaps fragments into the
// page container, keeps the address bar and navigation state in step, and runs
// the per-screen initializer registered for the identifier.
package nav

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/ziadkadry99/storyshelf/internal/dom"
	"github.com/ziadkadry99/storyshelf/internal/screens"
)

// DefaultContainerID is the element screens are rendered into.
const DefaultContainerID = "pageContainer"

// Placeholder texts written into the container.
const (
	LoadingText  = "Loading..."
	NotFoundText = "Page not found."
	ErrorText    = "Error loading page."
	WarningText  = "Part of this page failed to load. Try refreshing."
)

// Handler initializes a screen after its markup is in the container.
type Handler func(ctx context.Context, r *Router) error

// Routes maps page identifiers to their initializers. Identifiers without an
// entry still render; they just have nothing to initialize.
type Routes map[string]Handler

// Router renders screens into one Page. Each browser tab or server-side render
// owns its own Router; the Loader is shared.
type Router struct {
	page        *dom.Page
	loader      *screens.Loader
	routes      Routes
	logger      *log.Logger
	containerID string

	mu      sync.Mutex
	current string
}

// Option configures a Router.
type Option func(*Router)

// WithContainer renders into the element with the given id.
func WithContainer(id string) Option {
	return func(r *Router) {
		if id != "" {
			r.containerID = id
		}
	}
}

// NewRouter creates a router over page.
func NewRouter(page *dom.Page, loader *screens.Loader, routes Routes, logger *log.Logger, opts ...Option) *Router {
	r := &Router{
		page:        page,
		loader:      loader,
		routes:      routes,
		logger:      logger,
		containerID: DefaultContainerID,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Page returns the document the router renders into.
func (r *Router) Page() *dom.Page { return r.page }

// ContainerID returns the id of the element screens are rendered into.
func (r *Router) ContainerID() string { return r.containerID }

// Current returns the identifier of the last requested screen.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate shows id with the initializer registered for it.
func (r *Router) Navigate(ctx context.Context, id string) {
	r.Show(ctx, id, r.routes[id])
}

// Show loads the screen id into the container. It never fails outward: every
// failure ends with a message rendered in the container. Overlapping calls
// are not cancelled; whichever load finishes last wins the container.
func (r *Router) Show(ctx context.Context, id string, onLoad Handler) {
	if r.page == nil || !r.page.HasElement(r.containerID) {
		r.logger.Error("page container not found", "container", r.containerID)
		return
	}
	if !screens.ValidID(id) {
		r.logger.Warn("invalid page id", "page", id)
		r.setText(NotFoundText)
		return
	}

	r.page.ClearBanner()
	r.setText(LoadingText)
	_ = r.page.AddClass(r.containerID, "active")

	r.mu.Lock()
	r.current = id
	r.mu.Unlock()
	r.page.SetHash(id)

	markup, err := r.loader.Load(ctx, id)
	if err == nil {
		err = r.page.SetInnerHTML(r.containerID, markup)
	}
	if err != nil {
		r.logger.Error("showing page", "page", id, "err", err)
		r.setText(ErrorText)
		return
	}

	r.page.SetActiveNav(id)
	r.page.Announce(id + " page loaded")

	if onLoad != nil {
		r.runInit(ctx, id, onLoad)
	}
}

func (r *Router) runInit(ctx context.Context, id string, onLoad Handler) {
	err := func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = fmt.Errorf("panic: %v", v)
			}
		}()
		return onLoad(ctx, r)
	}()
	if err == nil {
		return
	}
	r.logger.Warn("screen initializer failed", "page", id, "err", err)
	if berr := r.page.InsertBanner(r.containerID, WarningText); berr != nil {
		r.logger.Error("inserting warning banner", "page", id, "err", berr)
	}
}

func (r *Router) setText(text string) {
	if err := r.page.SetText(r.containerID, text); err != nil {
		r.logger.Error("writing page container", "err", err)
	}
}
