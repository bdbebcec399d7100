package router

import (
	"database/sql"
	"net/http"

	"github.com/openshelf/catalog-api/internal/api/handlers"
	"github.com/openshelf/catalog-api/internal/api/handlers/authors"
	"github.com/openshelf/catalog-api/internal/api/handlers/books"
	mw "github.com/openshelf/catalog-api/internal/api/middlewares"
	"github.com/openshelf/catalog-api/internal/auth"
	"github.com/redis/go-redis/v9"
)

func Router(db *sql.DB, rdb *redis.Client) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /", handlers.RootHandler)

	// Legacy /books -> /books/
	mux.HandleFunc("GET /books", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/books/"+querySuffix(r), http.StatusMovedPermanently)
	})

	// Books: update and delete carry the id in the body, so every write method
	// is registered on the collection.
	bh := books.Handler(db)
	mux.Handle("GET /books/", bh)
	mux.Handle("POST /books/", bh)
	mux.Handle("PATCH /books/", bh)
	mux.Handle("PUT /books/", bh)
	mux.Handle("DELETE /books/", bh)
	mux.Handle("GET /books/{id}", bh)
	mux.Handle("OPTIONS /books/", bh)

	// Covers
	mux.Handle("POST /books/{id}/cover", books.UploadCoverHandler(db))
	mux.Handle("GET /books/{id}/cover", books.GetCoverHandler(db))

	// Authors
	ah := authors.Handler(db)
	mux.Handle("GET /authors/", ah)
	mux.Handle("POST /authors/", ah)
	mux.Handle("GET /authors/{id}", ah)
	mux.Handle("DELETE /authors/{id}", ah)
	mux.Handle("OPTIONS /authors/", ah)

	// Auth
	a := &auth.Handler{Store: auth.NewSQLStore(db), RDB: rdb}
	mux.HandleFunc("POST /auth/register", a.Register)
	mux.Handle("POST /auth/login", mw.LoginRateLimit(rdb, http.HandlerFunc(a.Login)))
	mux.HandleFunc("POST /auth/refresh", a.Refresh)
	mux.HandleFunc("POST /auth/logout", a.Logout)

	return mux
}

func querySuffix(r *http.Request) string {
	if r.URL.RawQuery != "" {
		return "?" + r.URL.RawQuery
	}
	return ""
}
