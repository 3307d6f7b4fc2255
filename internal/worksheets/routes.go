package worksheets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/storyshelf/internal/auth"
	"github.com/ziadkadry99/storyshelf/internal/supabase"
)

// Listing is a filtered catalog page.
type Listing struct {
	Items []Worksheet `json:"items"`
	Stats Stats       `json:"stats"`
}

// RegisterRoutes mounts the worksheet endpoints. Backend lookups go through
// the client of the request's auth scope.
func RegisterRoutes(r chi.Router, cfg StorageConfig) {
	r.Get("/api/worksheets", listHandler())
	r.Get("/api/worksheets/options", optionsHandler())
	r.Get("/api/worksheets/remote", remoteHandler(cfg))
	r.Get("/api/worksheets/{id}/file", fileHandler(cfg))
}

func listHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := Apply(Catalog, FilterFromQuery(r.URL.Query()))
		writeJSON(w, http.StatusOK, Listing{Items: items, Stats: Summarize(items)})
	}
}

func optionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, FilterOptions(Catalog))
	}
}

func remoteHandler(cfg StorageConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		answerKeys, _ := strconv.ParseBool(r.URL.Query().Get("answerKeys"))
		rows, err := NewRemote(scope.Client, cfg).List(r.Context(), scope.User(), answerKeys)
		if err != nil {
			writeJSON(w, statusFor(err), auth.Result{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, auth.Result{Success: true, Data: rows})
	}
}

func fileHandler(cfg StorageConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := auth.ScopeFrom(r.Context())
		u, err := NewRemote(scope.Client, cfg).FileURL(r.Context(), scope.User(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, statusFor(err), auth.Result{Message: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, auth.Result{Success: true, Data: map[string]string{"url": u}})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrFileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, supabase.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
