// Package authors exposes the author side of the catalog: public reads,
// authenticated create and delete. Deleting an author still referenced by
// books is refused.
package authors

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/openshelf/catalog-api/internal/api/apperr"
	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/api/middlewares"
	"github.com/openshelf/catalog-api/internal/repo/authorsrepo"
	"github.com/openshelf/catalog-api/internal/validate"
)

const allowAuthors = "GET, POST, DELETE, OPTIONS"

func Handler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			idPart := strings.Trim(strings.TrimPrefix(r.URL.Path, "/authors/"), "/")
			if idPart == "" {
				handleList(db, w, r)
				return
			}
			handleGet(db, w, r, idPart)

		case http.MethodPost:
			handleCreate(db, w, r)

		case http.MethodDelete:
			idPart := strings.Trim(strings.TrimPrefix(r.URL.Path, "/authors/"), "/")
			handleDelete(db, w, r, idPart)

		case http.MethodOptions:
			w.Header().Set("Allow", allowAuthors)
			w.WriteHeader(http.StatusNoContent)

		default:
			w.Header().Set("Allow", allowAuthors)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func handleList(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	out, err := authorsrepo.List(r.Context(), db, search)
	if err != nil {
		apperr.Handle(w, err, "failed to list authors")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func handleGet(db *sql.DB, w http.ResponseWriter, r *http.Request, idPart string) {
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Author not found")
		return
	}
	a, err := authorsrepo.FetchByID(r.Context(), db, id)
	if errors.Is(err, authorsrepo.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Author not found")
		return
	}
	if err != nil {
		apperr.Handle(w, err, "failed to fetch author")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}

func handleCreate(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	if _, ok := middlewares.UserIDFrom(r.Context()); !ok {
		httpx.Error(w, http.StatusForbidden, "authentication required")
		return
	}
	defer r.Body.Close()

	var body struct {
		Name string `json:"name"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	v := validate.New()
	name := v.RequireBounded("name", body.Name, 1, 120)
	if !v.Valid() {
		httpx.FieldErrors(w, v.Errors)
		return
	}

	a, err := authorsrepo.Create(r.Context(), db, name)
	if err != nil {
		apperr.Handle(w, err, "failed to create author")
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, a)
}

func handleDelete(db *sql.DB, w http.ResponseWriter, r *http.Request, idPart string) {
	if _, ok := middlewares.UserIDFrom(r.Context()); !ok {
		httpx.Error(w, http.StatusForbidden, "authentication required")
		return
	}

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		httpx.Error(w, http.StatusNotFound, "Author not found")
		return
	}

	err = authorsrepo.Delete(r.Context(), db, id)
	if errors.Is(err, authorsrepo.ErrNotFound) {
		httpx.Error(w, http.StatusNotFound, "Author not found")
		return
	}
	if err != nil {
		// a referenced author trips the FK restrict and maps to a conflict
		apperr.Handle(w, err, "failed to delete author")
		return
	}
	httpx.NoContent(w)
}
