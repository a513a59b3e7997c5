// Package api holds the helpers shared by the HTTP handler packages: the
// response envelope, error mapping and bearer-token authentication.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/taktflow/taktd/core/model"
)

// Envelope is the uniform response body: exactly one of Data and Error is set.
type Envelope struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// WriteData writes a 200 response with the payload wrapped in the envelope.
func WriteData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(Envelope{Data: data}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// WriteError maps domain errors to status codes: invalid input and bad
// simulation configs are the client's fault, everything else is a 500.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if model.IsInvalidInput(err) || model.IsSimulationConfig(err) {
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: err.Error()})
}

// RequireBearer wraps next with an Authorization check. An empty token
// disables authentication.
func RequireBearer(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PostOnly rejects non-POST methods before next runs.
func PostOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}
