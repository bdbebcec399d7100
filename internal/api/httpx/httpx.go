package httpx

import (
	"encoding/json"
	"net/http"
)

// Error bodies are {"error": <message>} where <message> is either a plain
// string or, for validation failures, a field->message map.
type errorEnvelope struct {
	Error any `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, errorEnvelope{Error: message})
}

// FieldErrors reports every failing field in a single 400 response.
func FieldErrors(w http.ResponseWriter, fields map[string]string) {
	WriteJSON(w, http.StatusBadRequest, errorEnvelope{Error: fields})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
