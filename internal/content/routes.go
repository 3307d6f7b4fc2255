package content

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyshelf/internal/auth"
)

// RegisterRoutes mounts the content endpoints. Each request reads through
// the backend client of its own auth scope.
func RegisterRoutes(r chi.Router) {
	r.Get("/api/books", listBooksHandler())
	r.Get("/api/books/{id}/chapters", listChaptersHandler())
	r.Get("/api/chapters/{id}", getChapterHandler())
	r.Get("/api/subscription", getSubscriptionHandler())
	r.Post("/api/subscription", activateSubscriptionHandler())
	r.Get("/api/profile", getProfileHandler())
	r.Put("/api/profile", updateProfileHandler())
}

func storeFor(r *http.Request) (*Store, auth.Scope) {
	scope := auth.ScopeFrom(r.Context())
	return NewStore(scope.Client), scope
}

func userID(scope auth.Scope) string {
	if u := scope.User(); u != nil {
		return u.ID
	}
	return ""
}

func listBooksHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := storeFor(r)
		books, err := store.Books(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, books)
	}
}

func listChaptersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
			return
		}
		store, _ := storeFor(r)
		chapters, err := store.Chapters(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		writeJSON(w, http.StatusOK, chapters)
	}
}

// ChapterView is a chapter as the reader shows it.
type ChapterView struct {
	Chapter Chapter `json:"chapter"`
	Gate    Gate    `json:"gate"`
	HTML    string  `json:"html,omitempty"`
}

func getChapterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid chapter id"}`, http.StatusBadRequest)
			return
		}
		store, scope := storeFor(r)
		view, err := store.Read(r.Context(), id, userID(scope))
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func getSubscriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, scope := storeFor(r)
		writeJSON(w, http.StatusOK, store.SubscriptionStatus(r.Context(), userID(scope)))
	}
}

func activateSubscriptionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			EndDate *time.Time `json:"endDate"`
		}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
				return
			}
		}
		store, scope := storeFor(r)
		if err := store.ActivateSubscription(r.Context(), userID(scope), body.EndDate); err != nil {
			writeJSON(w, statusFor(err), auth.Result{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, auth.Result{Success: true, Message: "Subscription active"})
	}
}

func getProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, scope := storeFor(r)
		p, err := store.Profile(r.Context(), userID(scope))
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func updateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields Profile
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		store, scope := storeFor(r)
		p, err := store.UpdateProfile(r.Context(), userID(scope), fields)
		if err != nil {
			writeError(w, statusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotSignedIn):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
