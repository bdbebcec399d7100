package handlers

import (
	"net/http"

	"github.com/openshelf/catalog-api/internal/api/httpx"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		httpx.Error(w, http.StatusNotFound, "not found")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"service": "catalog-api",
		"status":  "ok",
	})
}
