package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/openshelf/catalog-api/internal/api/middlewares"
)

func TestResponseTimeHeaderSet(t *testing.T) {
	wrapped := mw.ResponseTime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/books/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	v := rec.Header().Get("X-Response-Time")
	if v == "" {
		t.Fatal("X-Response-Time missing")
	}
	if _, err := time.ParseDuration(v); err != nil {
		t.Errorf("X-Response-Time %q is not a duration: %v", v, err)
	}
}

func TestResponseTimeSetOnImplicitHeader(t *testing.T) {
	// Write without an explicit WriteHeader still gets stamped.
	wrapped := mw.ResponseTime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/books/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Header().Get("X-Response-Time") == "" {
		t.Error("X-Response-Time missing after implicit header write")
	}
}
