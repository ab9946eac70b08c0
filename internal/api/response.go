package api

import (
	"encoding/json"
	"net/http"
)

// respondJSON writes a JSON response with the given status code and data.
// If data is nil, only the status code and Content-Type header are written.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes the {error, message} body shape used for every
// failure response of the service.
func respondError(w http.ResponseWriter, status int, errTitle, message string) {
	respondJSON(w, status, map[string]string{
		"error":   errTitle,
		"message": message,
	})
}
