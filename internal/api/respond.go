package api

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the `{message}` body used by the public endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the `{error}` body used by the contact endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationResponse reports field-level validation failures.
type ValidationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
