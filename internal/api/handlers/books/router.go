// Package books implements the book resource endpoint: public list/retrieve,
// authenticated create/update/delete, and cover image storage.
package books

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/api/middlewares"
)

const allowBooks = "GET, POST, PATCH, PUT, DELETE, OPTIONS"

// Handler serves the /books collection. Update and Delete address the record
// through the request body, not the path, so they live on the collection URL.
func Handler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			idPart := strings.Trim(strings.TrimPrefix(r.URL.Path, "/books/"), "/")
			if idPart == "" {
				handleList(db, w, r)
				return
			}
			handleGet(db, w, r, idPart)

		case http.MethodPost:
			handleCreate(db, w, r)

		case http.MethodPatch, http.MethodPut:
			handleUpdate(db, w, r)

		case http.MethodDelete:
			handleDelete(db, w, r)

		case http.MethodOptions:
			w.Header().Set("Allow", allowBooks)
			w.WriteHeader(http.StatusNoContent)

		default:
			w.Header().Set("Allow", allowBooks)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// requireAuth writes the forbidden-action response for anonymous callers and
// reports whether the request may proceed.
func requireAuth(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := middlewares.UserIDFrom(r.Context()); !ok {
		httpx.Error(w, http.StatusForbidden, "authentication required")
		return false
	}
	return true
}
