package booksrepo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

var sortColumns = map[string]string{
	"title":            "b.title",
	"publication_year": "b.publication_year",
}

// buildListQuery translates a ListQuery into SQL and its arguments. Sort keys
// outside the whitelist fall back to insertion (id) order.
func buildListQuery(q ListQuery) (string, []any) {
	where := []string{}
	args := []any{}
	i := 1

	if q.Title != "" {
		where = append(where, "b.title = $"+strconv.Itoa(i))
		args = append(args, q.Title)
		i++
	}
	if q.Author != "" {
		where = append(where, "a.name = $"+strconv.Itoa(i))
		args = append(args, q.Author)
		i++
	}
	if q.Year != nil {
		where = append(where, "b.publication_year = $"+strconv.Itoa(i))
		args = append(args, *q.Year)
		i++
	}
	if q.Search != "" {
		where = append(where,
			"(b.title ILIKE '%' || $"+strconv.Itoa(i)+" || '%' OR a.name ILIKE '%' || $"+strconv.Itoa(i)+" || '%')")
		args = append(args, q.Search)
		i++
	}

	sqlq := `
SELECT b.id, b.title, b.publication_year, b.author_id
FROM books b
JOIN authors a ON a.id = b.author_id
`
	if len(where) > 0 {
		sqlq += "WHERE " + strings.Join(where, " AND ") + "\n"
	}

	order := "b.id"
	if col, ok := sortColumns[q.Sort]; ok {
		order = col
		if q.Desc {
			order += " DESC"
		}
		order += ", b.id"
	}
	sqlq += "ORDER BY " + order

	return sqlq, args
}

func List(ctx context.Context, db *sql.DB, q ListQuery) ([]Book, error) {
	sqlq, args := buildListQuery(q)
	rows, err := db.QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.PublicationYear, &b.AuthorID); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
