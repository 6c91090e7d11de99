package handlers

import "net/http"

type HealthResponse struct {
	Status string `json:"status"`
}

// Health handles GET /health. It has no dependencies to probe, so reaching it
// is the whole check.
func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
