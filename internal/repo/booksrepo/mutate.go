package booksrepo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

func Create(ctx context.Context, db *sql.DB, dto CreateBookDTO) (Book, error) {
	var b Book
	err := db.QueryRowContext(ctx,
		`INSERT INTO books (title, publication_year, author_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, title, publication_year, author_id`,
		dto.Title, dto.PublicationYear, dto.AuthorID,
	).Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID)
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

// Update applies only the DTO fields that are set and returns the fresh row.
// Callers must have confirmed existence already; ErrNotFound covers the race
// where the row vanished in between.
func Update(ctx context.Context, db *sql.DB, id int64, dto UpdateBookDTO) (Book, error) {
	set := []string{}
	args := []any{}
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, col+" = $"+strconv.Itoa(len(args)))
	}

	if dto.Title != nil {
		add("title", *dto.Title)
	}
	if dto.PublicationYear != nil {
		add("publication_year", *dto.PublicationYear)
	}
	if dto.AuthorID != nil {
		add("author_id", *dto.AuthorID)
	}

	if len(set) == 0 {
		return FetchByID(ctx, db, id)
	}

	args = append(args, id)
	q := "UPDATE books SET " + strings.Join(set, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING id, title, publication_year, author_id"

	var b Book
	err := db.QueryRowContext(ctx, q, args...).Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID)
	if err == sql.ErrNoRows {
		return Book{}, ErrNotFound
	}
	if err != nil {
		return Book{}, err
	}
	return b, nil
}

func Delete(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Cover object keys live beside the row so the cover endpoints can resolve a
// book to its storage object.

func SetCoverKey(ctx context.Context, db *sql.DB, id int64, key string) error {
	res, err := db.ExecContext(ctx, `UPDATE books SET cover_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func CoverKey(ctx context.Context, db *sql.DB, id int64) (string, error) {
	var key sql.NullString
	err := db.QueryRowContext(ctx, `SELECT cover_key FROM books WHERE id = $1`, id).Scan(&key)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !key.Valid || key.String == "" {
		return "", ErrNotFound
	}
	return key.String, nil
}
