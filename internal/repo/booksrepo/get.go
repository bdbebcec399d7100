package booksrepo

import (
	"context"
	"database/sql"
	"errors"
)

func FetchByID(ctx context.Context, db *sql.DB, id int64) (Book, error) {
	var b Book
	err := db.QueryRowContext(ctx,
		`SELECT b.id, b.title, b.publication_year, b.author_id FROM books b WHERE b.id = $1`,
		id).Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func ExistsByID(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books b WHERE b.id = $1)`, id).Scan(&exists)
	return exists, err
}
