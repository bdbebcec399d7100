package books

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/openshelf/catalog-api/internal/api/apperr"
	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/repo/authorsrepo"
	"github.com/openshelf/catalog-api/internal/repo/booksrepo"
	"github.com/openshelf/catalog-api/internal/validate"
)

// handleUpdate applies a partial update. Checks run in a fixed order, each
// short-circuiting the next: authentication, id presence, existence, then
// field validation.
func handleUpdate(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}
	defer r.Body.Close()

	var body updateReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.ID == nil {
		httpx.Error(w, http.StatusBadRequest, "Book ID is required")
		return
	}

	exists, err := booksrepo.ExistsByID(r.Context(), db, *body.ID)
	if err != nil {
		apperr.Handle(w, err, "failed to look up book")
		return
	}
	if !exists {
		httpx.Error(w, http.StatusNotFound, "Book not found")
		return
	}

	v := validate.New()
	var dto booksrepo.UpdateBookDTO
	if body.Title != nil {
		t := v.RequireBounded("title", *body.Title, 1, 200)
		dto.Title = &t
	}
	if body.PublicationYear != nil {
		v.YearNotFuture("publication_year", *body.PublicationYear)
		dto.PublicationYear = body.PublicationYear
	}
	if body.Author != nil {
		ok, err := authorsrepo.ExistsByID(r.Context(), db, *body.Author)
		if err != nil {
			apperr.Handle(w, err, "failed to verify author")
			return
		}
		v.Check(ok, "author", "author not found")
		dto.AuthorID = body.Author
	}
	if !v.Valid() {
		httpx.FieldErrors(w, v.Errors)
		return
	}

	b, err := booksrepo.Update(r.Context(), db, *body.ID, dto)
	if errors.Is(err, booksrepo.ErrNotFound) {
		// deleted between the existence check and the update
		httpx.Error(w, http.StatusNotFound, "Book not found")
		return
	}
	if err != nil {
		apperr.Handle(w, err, "failed to update book")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, b)
}
