package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/views"
)

// checkOrigin admits same-host pages and clients that send no Origin.
// AllowAll lifts the check along with CORS.
func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.AllowAll {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// liveRequest is the incoming WebSocket message format.
type liveRequest struct {
	Type string `json:"type"` // "init", "hashchange" or "click"
	Hash string `json:"hash,omitempty"`
	Page string `json:"page,omitempty"`
}

// liveResponse is the outgoing WebSocket message format.
type liveResponse struct {
	Type    string `json:"type"` // "render" or "error"
	Page    string `json:"page,omitempty"`
	Hash    string `json:"hash,omitempty"`
	HTML    string `json:"html,omitempty"`
	Warning string `json:"warning,omitempty"`
	Error   string `json:"error,omitempty"`
}

// handleLive drives one browser tab over a WebSocket: the tab reports hash
// changes and nav clicks, the server navigates its copy of the document and
// sends back the new main region. Auth changes of the browser session
// navigate every open tab.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	scope := auth.ScopeFrom(r.Context())
	sid := scope.SessionID

	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade", "origin", r.Header.Get("Origin"), "err", err)
		return
	}
	defer conn.Close()

	base, cancel := context.WithCancel(r.Context())
	defer cancel()
	ctx := auth.WithScopeFunc(base, func() auth.Scope { return s.bridge.Scope(base, sid) })
	ctx = views.WithQuery(ctx, r.URL.Query())

	t := s.newTab(ctx)
	events, unsubscribe := s.events.Subscribe(sid)
	defer unsubscribe()

	msgs := make(chan []byte)
	go func() {
		defer close(msgs)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Warn("websocket read", "err", err)
				}
				return
			}
			select {
			case msgs <- msg:
			case <-base.Done():
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var req liveRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				s.send(conn, liveResponse{Type: "error", Error: "invalid message format"})
				continue
			}
			switch req.Type {
			case "init":
				t.router.Navigate(ctx, t.hash.Resolve(req.Hash))
			case "hashchange":
				if !t.page.SetHash(req.Hash) {
					continue
				}
			case "click":
				t.hash.Click(ctx, req.Page)
			default:
				s.send(conn, liveResponse{Type: "error", Error: "unknown message type: " + req.Type})
				continue
			}
			s.sendRender(conn, t)

		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Type {
			case auth.SignedIn:
				t.router.Navigate(ctx, views.Dashboard)
			case auth.SignedOut:
				t.router.Navigate(ctx, s.cfg.Home)
			default:
				continue
			}
			s.sendRender(conn, t)
		}
	}
}

// sendRender sends the tab's main region and address bar.
func (s *Server) sendRender(conn *websocket.Conn, t *tab) {
	markup, err := t.page.InnerHTML(mainID)
	if err != nil {
		s.logger.Error("reading main region", "err", err)
		s.send(conn, liveResponse{Type: "error", Error: "render failed"})
		return
	}
	s.send(conn, liveResponse{
		Type:    "render",
		Page:    t.router.Current(),
		Hash:    t.page.Hash(),
		HTML:    markup,
		Warning: t.page.Banner(),
	})
}

func (s *Server) send(conn *websocket.Conn, resp liveResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.logger.Warn("websocket write", "err", err)
	}
}
