package handlers

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the standard success response shape
type Envelope struct {
	Success   bool        `json:"success"`
	Count     *int        `json:"count,omitempty"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondData wraps a payload in the success envelope
func respondData(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

// respondList wraps a list payload and includes its length
func respondList(w http.ResponseWriter, count int, data interface{}) {
	respondJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Count:     &count,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
