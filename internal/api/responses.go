package api

import (
	"encoding/json"
	"log"
	"net/http"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Błąd przy zapisie odpowiedzi JSON: %v", err)
	}
}

// writeError answers with the structured envelope every API error uses.
// The message must never leak internals; handlers pass a caller-facing
// message and log the underlying error themselves.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}
