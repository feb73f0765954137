package utils

import (
	"encoding/json"
	"net/http"
)

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// ValidationFailed writes the standard 400 body carrying all failed checks
func ValidationFailed(w http.ResponseWriter, messages []string) {
	JSON(w, http.StatusBadRequest, map[string]interface{}{
		"error":  "Validation failed",
		"errors": messages,
	})
}
