// Package httputil provides shared JSON response helpers.
package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/medbridge/insurance-api/internal/errors"
)

// WriteJSON writes v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the single-field error body every failure uses.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteServiceError maps err through the service error taxonomy. Plain
// errors surface as a generic 500; internal detail never reaches the caller.
func WriteServiceError(w http.ResponseWriter, err error) {
	if serviceErr := errors.GetServiceError(err); serviceErr != nil {
		WriteError(w, serviceErr.HTTPStatus, serviceErr.Message)
		return
	}
	WriteError(w, http.StatusInternalServerError, "internal server error")
}
