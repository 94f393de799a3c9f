// Package shared centralizes JSON response and error envelope writing so
// every handler emits the same shapes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "github.com/codyjhsieh/axlepolicy/pkg/domain-errors"
)

// errorBody is the envelope for server-side failures.
type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the HTTP error contract. Caller
// faults (validation, unknown carrier) use the flat {"error": "..."} shape;
// everything else uses the {"error": {"message", "statusCode"}} envelope
// with a default status of 500 for uncoded errors.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status := dErrors.ToHTTPStatus(code)

	switch code {
	case dErrors.CodeValidation, dErrors.CodeNotFound:
		WriteJSON(w, status, map[string]string{"error": err.Error()})
	default:
		WriteJSON(w, status, map[string]errorBody{"error": {
			Message:    err.Error(),
			StatusCode: status,
		}})
	}
}
