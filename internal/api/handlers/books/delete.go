package books

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/openshelf/catalog-api/internal/api/apperr"
	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/repo/booksrepo"
)

// handleDelete removes a book addressed by an id in the request body. Deleting
// an already-deleted id reports NotFound rather than succeeding silently.
func handleDelete(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}
	defer r.Body.Close()

	var body deleteReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.ID == nil {
		httpx.Error(w, http.StatusBadRequest, "Book ID is required")
		return
	}

	err := booksrepo.Delete(r.Context(), db, *body.ID)
	if errors.Is(err, booksrepo.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		apperr.Handle(w, err, "failed to delete book")
		return
	}
	httpx.NoContent(w)
}
