package server

import (
	"encoding/json"
	"net/http"
	"time"
)

const timeFormat = time.RFC3339

// envelope is the body of every auth route response.
type envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string, now time.Time) {
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Message:   message,
		Timestamp: now.UTC().Format(timeFormat),
	})
}

func writeError(w http.ResponseWriter, status int, msg string, now time.Time) {
	writeJSON(w, status, envelope{
		Success:   false,
		Error:     msg,
		Timestamp: now.UTC().Format(timeFormat),
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-content-type-options", "nosniff")
		w.Header().Set("referrer-policy", "no-referrer")
		w.Header().Set("cache-control", "no-store")
		next.ServeHTTP(w, r)
	})
}
