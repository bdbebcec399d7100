package booksrepo_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/openshelf/catalog-api/internal/repo/booksrepo"
)

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO books (title, publication_year, author_id)`)).
		WithArgs("Book1", 2020, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}).
			AddRow(int64(7), "Book1", 2020, int64(1)))

	b, err := booksrepo.Create(t.Context(), db, booksrepo.CreateBookDTO{
		Title: "Book1", PublicationYear: 2020, AuthorID: 1,
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.ID != 7 || b.Title != "Book1" || b.PublicationYear != 2020 || b.AuthorID != 1 {
		t.Fatalf("unexpected book: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdatePartial(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	title := "New Title"
	mock.ExpectQuery(regexp.QuoteMeta(
		`UPDATE books SET title = $1 WHERE id = $2 RETURNING id, title, publication_year, author_id`,
	)).
		WithArgs("New Title", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}).
			AddRow(int64(7), "New Title", 2020, int64(1)))

	b, err := booksrepo.Update(t.Context(), db, 7, booksrepo.UpdateBookDTO{Title: &title})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.Title != "New Title" || b.PublicationYear != 2020 {
		t.Fatalf("unexpected book: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdateNoFieldsRereads(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT b.id, b.title, b.publication_year, b.author_id FROM books b WHERE b.id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}).
			AddRow(int64(7), "Book1", 2020, int64(1)))

	b, err := booksrepo.Update(t.Context(), db, 7, booksrepo.UpdateBookDTO{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if b.ID != 7 {
		t.Fatalf("unexpected book: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM books WHERE id = $1`)).
		WithArgs(int64(99999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := booksrepo.Delete(t.Context(), db, 99999); !errors.Is(err, booksrepo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFetchByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT b.id, b.title, b.publication_year, b.author_id FROM books b WHERE b.id = $1`)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "publication_year", "author_id"}))

	if _, err := booksrepo.FetchByID(t.Context(), db, 42); !errors.Is(err, booksrepo.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCoverKeyMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT cover_key FROM books WHERE id = $1`)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"cover_key"}).AddRow(nil))

	if _, err := booksrepo.CoverKey(t.Context(), db, 7); !errors.Is(err, booksrepo.ErrNotFound) {
		t.Fatalf("want ErrNotFound for NULL cover, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
