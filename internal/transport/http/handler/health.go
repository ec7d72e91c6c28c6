package handler

import "net/http"

// Health reports service liveness.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "eloquence-auth-api"})
}

// Root is the service banner.
func Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "Eloquence Auth API",
		"status":  "running",
		"version": "1.0.0",
	})
}
