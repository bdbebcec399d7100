package books

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/openshelf/catalog-api/internal/api/apperr"
	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/repo/booksrepo"
)

// handleList supports exact filters (title, author name, publication_year), a
// case-insensitive substring search over title/author name, and whitelisted
// ordering with a leading "-" for descending.
func handleList(db *sql.DB, w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	q := booksrepo.ListQuery{
		Title:  strings.TrimSpace(qs.Get("title")),
		Author: strings.TrimSpace(qs.Get("author")),
		Search: strings.TrimSpace(qs.Get("search")),
	}

	if raw := strings.TrimSpace(qs.Get("publication_year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "publication_year must be an integer")
			return
		}
		q.Year = &year
	}

	if ordering := strings.TrimSpace(qs.Get("ordering")); ordering != "" {
		if strings.HasPrefix(ordering, "-") {
			q.Desc = true
			ordering = ordering[1:]
		}
		// unknown sort keys are ignored by the repo
		q.Sort = ordering
	}

	out, err := booksrepo.List(r.Context(), db, q)
	if err != nil {
		apperr.Handle(w, err, "failed to list books")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}
