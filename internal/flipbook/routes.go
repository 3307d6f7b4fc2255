package flipbook

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the flip-book endpoints.
func RegisterRoutes(r chi.Router, shelf Shelf) {
	r.Get("/api/flipbook/books", booksHandler(shelf))
	r.Get("/api/flipbook/spread", spreadHandler())
}

func booksHandler(shelf Shelf) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books := shelf
		if books == nil {
			books = Shelf{}
		}
		writeJSON(w, http.StatusOK, books)
	}
}

func spreadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			page = 1
		}
		total, err := strconv.Atoi(r.URL.Query().Get("total"))
		if err != nil || total < 0 {
			http.Error(w, `{"error":"total must be a page count"}`, http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, At(page, total))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
