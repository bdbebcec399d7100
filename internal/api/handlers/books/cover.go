package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/openshelf/catalog-api/internal/api/apperr"
	"github.com/openshelf/catalog-api/internal/api/httpx"
	"github.com/openshelf/catalog-api/internal/repo/booksrepo"
	storage "github.com/openshelf/catalog-api/internal/storage/s3"
)

var coverTypes = map[string]string{
	"image/webp": "webp",
	"image/jpeg": "jpg",
	"image/png":  "png",
}

type coverStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) error
	PresignDownload(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// swappable in tests
var openCoverStore = func(ctx context.Context) (coverStore, error) {
	return storage.New(ctx)
}

// UploadCoverHandler accepts a multipart "cover" image, stores it in object
// storage and records the key on the book.
func UploadCoverHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAuth(w, r) {
			return
		}
		ctx := r.Context()

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "Book not found")
			return
		}

		if err := r.ParseMultipartForm(10 << 20); err != nil {
			httpx.Error(w, http.StatusBadRequest, "failed to parse form")
			return
		}
		file, header, err := r.FormFile("cover")
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "missing cover file")
			return
		}
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		ext, ok := coverTypes[contentType]
		if !ok {
			httpx.Error(w, http.StatusBadRequest, "invalid image type, must be webp, jpeg, or png")
			return
		}

		store, err := openCoverStore(ctx)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "object storage unavailable")
			return
		}

		objectKey := fmt.Sprintf("books/covers/%d-%d.%s", id, time.Now().Unix(), ext)
		if err := store.Upload(ctx, objectKey, file, contentType, header.Size); err != nil {
			httpx.Error(w, http.StatusInternalServerError, "failed to upload cover")
			return
		}

		if err := booksrepo.SetCoverKey(ctx, db, id, objectKey); err != nil {
			// the object is orphaned otherwise
			_ = store.Delete(ctx, objectKey)
			if errors.Is(err, booksrepo.ErrNotFound) {
				httpx.Error(w, http.StatusNotFound, "Book not found")
				return
			}
			apperr.Handle(w, err, "failed to save cover")
			return
		}

		url, err := store.PresignDownload(ctx, objectKey)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "uploaded but failed to generate url")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"cover_url":  url,
			"object_key": objectKey,
		})
	}
}

// GetCoverHandler redirects to a fresh presigned URL for the book's cover.
func GetCoverHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusNotFound, "Book not found")
			return
		}

		key, err := booksrepo.CoverKey(ctx, db, id)
		if errors.Is(err, booksrepo.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "cover not found")
			return
		}
		if err != nil {
			apperr.Handle(w, err, "failed to look up cover")
			return
		}

		store, err := openCoverStore(ctx)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "object storage unavailable")
			return
		}
		url, err := store.PresignDownload(ctx, key)
		if err != nil {
			httpx.Error(w, http.StatusInternalServerError, "failed to generate url")
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
	}
}
