package authorsrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type Author struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func Create(ctx context.Context, db *sql.DB, name string) (Author, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Author{}, err
	}
	defer tx.Rollback()

	slug, err := ensureUniqueSlug(ctx, tx, Slugify(name), 10)
	if err != nil {
		return Author{}, err
	}

	var a Author
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO authors (name, slug) VALUES ($1, $2)
		 RETURNING id, name, slug, created_at`,
		name, slug,
	).Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt); err != nil {
		return Author{}, err
	}

	if err := tx.Commit(); err != nil {
		return Author{}, err
	}
	return a, nil
}

func FetchByID(ctx context.Context, db *sql.DB, id int64) (Author, error) {
	var a Author
	err := db.QueryRowContext(ctx,
		`SELECT id, name, slug, created_at FROM authors WHERE id = $1`,
		id).Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Author{}, ErrNotFound
	}
	if err != nil {
		return Author{}, err
	}
	return a, nil
}

func ExistsByID(ctx context.Context, db *sql.DB, id int64) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM authors WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// List returns authors, optionally narrowed to names containing search
// (case-insensitive).
func List(ctx context.Context, db *sql.DB, search string) ([]Author, error) {
	q := `SELECT id, name, slug, created_at FROM authors`
	args := []any{}
	if search != "" {
		q += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}
	q += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Author{}
	for rows.Next() {
		var a Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an author. The books FK is ON DELETE RESTRICT, so deleting an
// author still referenced by books surfaces as a foreign-key violation which
// the caller maps to a conflict.
func Delete(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
