package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyshelf/internal/dom"
	"github.com/ziadkadry99/storyshelf/internal/nav"
	"github.com/ziadkadry99/storyshelf/internal/screens"
	"github.com/ziadkadry99/storyshelf/internal/views"
)

// mainID is the region a live tab replaces after each navigation.
const mainID = "main"

// tab is one browser tab's document and navigation state.
type tab struct {
	page   *dom.Page
	router *nav.Router
	hash   *nav.HashListener
}

// newTab builds a fresh document with its own router. ctx is used for the
// navigations its hash listener triggers.
func (s *Server) newTab(ctx context.Context) *tab {
	page := dom.New()
	if s.notice != "" {
		_ = page.SetText(dom.NoticeID, s.notice)
		_ = page.SetHidden(dom.NoticeID, false)
	}
	router := nav.NewRouter(page, s.loader, s.routes, s.logger, nav.WithContainer(s.cfg.ContainerID))
	hl := nav.NewHashListener(router, s.cfg.Home)
	hl.Attach(ctx, page)
	return &tab{page: page, router: router, hash: hl}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, s.cfg.Home)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, chi.URLParam(r, "page"))
}

// renderPage navigates a fresh tab to id and writes the whole document.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, id string) {
	ctx := views.WithQuery(r.Context(), r.URL.Query())
	t := s.newTab(ctx)
	t.router.Navigate(ctx, id)

	doc, err := t.page.Render()
	if err != nil {
		s.logger.Error("rendering page", "page", id, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if !screens.ValidID(id) {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(doc))
}

// handleScreen returns a bare, sanitized screen fragment.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if !screens.ValidID(id) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(screens.ErrorFragment))
		return
	}
	markup, err := s.loader.Load(r.Context(), id)
	if err != nil {
		// Only reachable for invalid ids, which were rejected above.
		markup = screens.ErrorFragment
	}
	w.Write([]byte(markup))
}
