package books_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/openshelf/catalog-api/internal/api/handlers/books"
	"github.com/openshelf/catalog-api/internal/api/middlewares"
)

func newDB(t *testing.T) (*httptest.ResponseRecorder, sqlmock.Sqlmock, http.HandlerFunc) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return httptest.NewRecorder(), mock, books.Handler(db)
}

// asUser simulates a request that passed bearer-token authentication.
func asUser(r *http.Request) *http.Request {
	return r.WithContext(middlewares.WithUserID(r.Context(), "u-1"))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body["error"]
}

func TestCreateAnonymousForbidden(t *testing.T) {
	rec, mock, h := newDB(t)
	req := httptest.NewRequest(http.MethodPost, "/books/",
		strings.NewReader(`{"title":"Book1","publication_year":2020,"author":1}`))

	h(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "authentication required" {
		t.Errorf("error = %v", msg)
	}
	// the database must never be touched for anonymous writes
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateCollectsAllValidationErrors(t *testing.T) {
	rec, _, h := newDB(t)
	req := asUser(httptest.NewRequest(http.MethodPost, "/books/",
		strings.NewReader(`{"title":"","publication_year":3035}`)))

	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	fields, ok := decodeError(t, rec).(map[string]any)
	if !ok {
		t.Fatalf("error is not a field map: %s", rec.Body.String())
	}
	for _, f := range []string{"title", "publication_year", "author"} {
		if _, present := fields[f]; !present {
			t.Errorf("missing error for %q in %v", f, fields)
		}
	}
}

func TestCreateUnknownAuthor(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`)).
		WithArgs(int64(555)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	req := asUser(httptest.NewRequest(http.MethodPost, "/books/",
		strings.NewReader(`{"title":"Book1","publication_year":2020,"author":555}`)))
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	fields, _ := decodeError(t, rec).(map[string]any)
	if fields["author"] != "author not found" {
		t.Errorf("author error = %v", fields["author"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateOK(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books (title, publication_year, author_id)`)).
		WithArgs("Book1", 2020, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}).
			AddRow(int64(1), "Book1", 2020, int64(1)))

	req := asUser(httptest.NewRequest(http.MethodPost, "/books/",
		strings.NewReader(`{"title":"Book1","publication_year":2020,"author":1}`)))
	h(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	var got struct {
		ID              int64  `json:"id"`
		Title           string `json:"title"`
		PublicationYear int    `json:"publication_year"`
		Author          int64  `json:"author"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != 1 || got.Title != "Book1" || got.Author != 1 {
		t.Errorf("unexpected body: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateMissingID(t *testing.T) {
	rec, mock, h := newDB(t)
	req := asUser(httptest.NewRequest(http.MethodPut, "/books/",
		strings.NewReader(`{"title":"New Title"}`)))

	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Book ID is required" {
		t.Errorf("error = %v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateEmptyBodyMissingID(t *testing.T) {
	// an empty body is treated the same as a body without an id
	rec, mock, h := newDB(t)
	req := asUser(httptest.NewRequest(http.MethodPut, "/books/", nil))

	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Book ID is required" {
		t.Errorf("error = %v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateUnknownBook(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM books b WHERE b.id = $1)`)).
		WithArgs(int64(99999)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	req := asUser(httptest.NewRequest(http.MethodPatch, "/books/",
		strings.NewReader(`{"id":99999,"title":"New Title"}`)))
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Book not found" {
		t.Errorf("error = %v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateOK(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM books b WHERE b.id = $1)`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE books SET title = $1 WHERE id = $2`)).
		WithArgs("New Title", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}).
			AddRow(int64(1), "New Title", 2020, int64(1)))

	req := asUser(httptest.NewRequest(http.MethodPatch, "/books/",
		strings.NewReader(`{"id":1,"title":"New Title"}`)))
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"title":"New Title"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteMissingID(t *testing.T) {
	rec, mock, h := newDB(t)
	req := asUser(httptest.NewRequest(http.MethodDelete, "/books/", strings.NewReader(`{}`)))

	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Book ID is required" {
		t.Errorf("error = %v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteUnknownBook(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(int64(99999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	req := asUser(httptest.NewRequest(http.MethodDelete, "/books/",
		strings.NewReader(`{"id":99999}`)))
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteOK(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := asUser(httptest.NewRequest(http.MethodDelete, "/books/",
		strings.NewReader(`{"id":1}`)))
	h(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("204 response carries a body: %s", rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRetrieveNotFound(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT b.id, b.title, b.publication_year, b.author_id FROM books b WHERE b.id = $1`)).
		WithArgs(int64(99999)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}))

	req := httptest.NewRequest(http.MethodGet, "/books/99999", nil)
	h(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "Book not found" {
		t.Errorf("error = %v", msg)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListIsPublic(t *testing.T) {
	rec, mock, h := newDB(t)
	mock.ExpectQuery(`SELECT b\.id, b\.title, b\.publication_year, b\.author_id\s+FROM books b\s+JOIN authors a ON a\.id = b\.author_id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}).
			AddRow(int64(1), "Book1", 2020, int64(1)).
			AddRow(int64(2), "Book2", 2021, int64(1)))

	req := httptest.NewRequest(http.MethodGet, "/books/", nil)
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListRejectsBadYear(t *testing.T) {
	rec, mock, h := newDB(t)
	req := httptest.NewRequest(http.MethodGet, "/books/?publication_year=abc", nil)

	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOptionsAdvertisesMethods(t *testing.T) {
	rec, _, h := newDB(t)
	req := httptest.NewRequest(http.MethodOptions, "/books/", nil)

	h(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, "PATCH") {
		t.Errorf("Allow = %q", allow)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec, _, h := newDB(t)
	req := httptest.NewRequest(http.MethodHead, "/books/", nil)

	h(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, "DELETE") {
		t.Errorf("Allow = %q", allow)
	}
}
