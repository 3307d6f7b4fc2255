package server

import (
	"net/http"

	"github.com/ziadkadry99/storyshelf/internal/auth"
)

// SessionCookie names the cookie carrying the browser session id.
const SessionCookie = "storyshelf_sid"

// withSession makes sure every request has a browser session id and attaches
// the session's backend scope to the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := sessionID(r)
		if sid == "" {
			sid = auth.NewSessionID()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := auth.WithScope(r.Context(), s.bridge.Scope(r.Context(), sid))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the request's session id, or "" when missing or malformed.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(SessionCookie)
	if err != nil || !auth.ValidSessionID(c.Value) {
		return ""
	}
	return c.Value
}
