package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/supabase"
	"github.com/ziadkadry99/storyshelf/internal/validate"
)

// signInRules are the login form's field rules.
var signInRules = map[string]validate.Rule{
	"email":    {Required: true, Type: validate.TypeEmail},
	"password": {Required: true, Type: validate.TypePassword, MinLength: 6},
}

// sessionView is what the browser learns about its session. Tokens stay on
// the server.
type sessionView struct {
	SignedIn bool           `json:"signedIn"`
	User     *supabase.User `json:"user,omitempty"`
}

func (s *Server) registerAuthRoutes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/session", s.sessionHandler())
		r.Post("/signin", s.signInHandler())
		r.Post("/signup", s.signUpHandler())
		r.Post("/signout", s.signOutHandler())
		r.Post("/password", s.passwordHandler())
	})
}

func (s *Server) sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		writeJSON(w, http.StatusOK, sessionView{SignedIn: scope.SignedIn(), User: scope.User()})
	}
}

func (s *Server) signInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		email := validate.SanitizeString(body.Email)
		res := validate.Validate(
			map[string]string{"email": email, "password": body.Password},
			signInRules,
		)
		if !res.IsValid {
			writeJSON(w, http.StatusBadRequest, auth.Result{Message: res.First("email", "password"), Data: res.Errors})
			return
		}

		sid := auth.ScopeFrom(r.Context()).SessionID
		result := s.bridge.SignIn(r.Context(), sid, email, body.Password)
		if result.Success {
			// The session itself never leaves the server.
			result.Data = sessionView{SignedIn: true, User: userOf(result.Data)}
		}
		writeResult(w, result)
	}
}

func (s *Server) signUpHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form validate.Registration
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if msg := form.Check(); msg != "" {
			writeJSON(w, http.StatusBadRequest, auth.Result{Message: msg})
			return
		}

		sid := auth.ScopeFrom(r.Context()).SessionID
		profile := map[string]any{"name": strings.TrimSpace(form.Name)}
		result := s.bridge.SignUp(r.Context(), sid, strings.TrimSpace(form.Email), form.Password, profile)
		if result.Success {
			if data, ok := result.Data.(map[string]any); ok {
				user, _ := data["user"].(*supabase.User)
				sess, _ := data["session"].(*supabase.Session)
				if user == nil && sess != nil {
					user = sess.User
				}
				result.Data = sessionView{SignedIn: sess != nil, User: user}
			}
		}
		writeResult(w, result)
	}
}

func (s *Server) signOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sid := auth.ScopeFrom(r.Context()).SessionID
		writeResult(w, s.bridge.SignOut(r.Context(), sid))
	}
}

func (s *Server) passwordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var pc auth.PasswordChange
		if err := json.NewDecoder(r.Body).Decode(&pc); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		sid := auth.ScopeFrom(r.Context()).SessionID
		writeResult(w, s.bridge.UpdatePasswordSecurely(r.Context(), sid, pc))
	}
}

// userOf extracts the user from a sign-in result's session.
func userOf(data any) *supabase.User {
	if sess, ok := data.(*supabase.Session); ok && sess != nil {
		return sess.User
	}
	return nil
}

// writeResult writes a bridge Result with a status matching its outcome.
func writeResult(w http.ResponseWriter, res auth.Result) {
	status := http.StatusOK
	switch {
	case res.Success:
	case res.Message == auth.MsgNotConfigured:
		status = http.StatusServiceUnavailable
	case res.Message == auth.MsgWeakNewPassword:
		status = http.StatusBadRequest
	default:
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
