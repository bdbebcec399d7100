// Package apperr maps database failures onto HTTP outcomes so handlers do not
// inspect SQLSTATE codes themselves.
package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openshelf/catalog-api/internal/api/httpx"
)

type Problem struct {
	Status  int
	Message string
	Field   string
}

// Constraint names from the schema, mapped to the field a client can fix.
var constraintField = map[string]string{
	"books_author_id_fkey": "author",
	"books_pkey":           "id",
	"users_email_key":      "email",
	"users_username_key":   "username",
}

// FromPG translates a pgconn.PgError into a Problem. Returns false when err is
// not a Postgres error.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	field := constraintField[pg.ConstraintName]

	switch pg.Code {
	case "23505": // unique_violation
		return Problem{Status: http.StatusConflict, Message: "value already exists", Field: field}, true
	case "23503": // foreign_key_violation
		// Either an insert referencing a missing row or a delete of a row
		// other records still point at.
		if strings.Contains(pg.Message, "is still referenced") || strings.Contains(pg.Detail, "still referenced") {
			return Problem{Status: http.StatusConflict, Message: "resource is referenced by other records", Field: field}, true
		}
		return Problem{Status: http.StatusBadRequest, Message: "referenced resource does not exist", Field: field}, true
	case "23502": // not_null_violation
		f := field
		if f == "" {
			f = pg.ColumnName
		}
		return Problem{Status: http.StatusBadRequest, Message: "required field is missing", Field: f}, true
	case "22P02": // invalid_text_representation
		return Problem{Status: http.StatusBadRequest, Message: "invalid format", Field: field}, true
	case "22001": // string_data_right_truncation
		return Problem{Status: http.StatusBadRequest, Message: "value is too long", Field: field}, true
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return Problem{Status: http.StatusConflict, Message: "transaction conflict, please retry"}, true
	}
	return Problem{Status: http.StatusInternalServerError, Message: "database error"}, true
}

// Handle writes err as a JSON problem and reports whether it did. A nil err is
// not handled; anything unrecognized becomes a 500 with the fallback message.
func Handle(w http.ResponseWriter, err error, fallback string) bool {
	if err == nil {
		return false
	}
	if p, ok := FromPG(err); ok {
		if p.Field != "" {
			httpx.WriteJSON(w, p.Status, map[string]any{"error": map[string]string{p.Field: p.Message}})
		} else {
			httpx.Error(w, p.Status, p.Message)
		}
		return true
	}
	httpx.Error(w, http.StatusInternalServerError, fallback)
	return true
}
