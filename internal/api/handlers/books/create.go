package books

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/openshelf/catalog-api/internal/api/apperr"
	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/repo/authorsrepo"
	"github.com/openshelf/catalog-api/internal/repo/booksrepo"
	"github.com/openshelf/catalog-api/internal/validate"
)

func handleCreate(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	if !requireAuth(w, r) {
		return
	}
	defer r.Body.Close()

	var body createReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	// Every violation is collected and reported together.
	v := validate.New()
	title := v.RequireBounded("title", body.Title, 1, 200)
	if body.PublicationYear == nil {
		v.AddError("publication_year", "publication_year is required")
	} else {
		v.YearNotFuture("publication_year", *body.PublicationYear)
	}
	if body.Author == nil {
		v.AddError("author", "author is required")
	} else {
		exists, err := authorsrepo.ExistsByID(r.Context(), db, *body.Author)
		if err != nil {
			apperr.Handle(w, err, "failed to verify author")
			return
		}
		v.Check(exists, "author", "author not found")
	}
	if !v.Valid() {
		httpx.FieldErrors(w, v.Errors)
		return
	}

	b, err := booksrepo.Create(r.Context(), db, booksrepo.CreateBookDTO{
		Title:           title,
		PublicationYear: *body.PublicationYear,
		AuthorID:        *body.Author,
	})
	if err != nil {
		apperr.Handle(w, err, "failed to create book")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, b)
}
