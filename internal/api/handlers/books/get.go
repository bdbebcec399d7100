package books

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/openshelf/catalog-api/internal/api/apperr"
	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/repo/booksrepo"
)

func handleGet(db *sql.DB, w http.ResponseWriter, r *http.Request, idPart string) {
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		// non-numeric identifiers cannot name a book
		httpx.Error(w, http.StatusNotFound, "Book not found")
		return
	}

	b, err := booksrepo.FetchByID(r.Context(), db, id)
	if errors.Is(err, booksrepo.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		apperr.Handle(w, err, "failed to fetch book")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}
