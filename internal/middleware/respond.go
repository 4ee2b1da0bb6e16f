package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends the API error envelope. Handlers use their own helper;
// this one exists so middleware has no dependency on the handlers package.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
