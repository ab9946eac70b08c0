package api

import (
	"net/http"
	"time"
)

// healthResponse is the GET /health body.
type healthResponse struct {
	Status          string `json:"status"`
	Service         string `json:"service"`
	Timestamp       string `json:"timestamp"`
	EmailConfigured bool   `json:"emailConfigured"`
}

// HealthHandler handles GET /health. It reports process liveness and
// whether the mail relay credentials are configured; it does not re-verify
// live relay connectivity on every call.
func HealthHandler(serviceName string, emailConfigured func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, healthResponse{
			Status:          "UP",
			Service:         serviceName,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			EmailConfigured: emailConfigured(),
		})
	}
}
