package middlewares

import (
	"encoding/json"
	"net/http"
)

// writeError writes the {"error": message} body shared with libs/handlers.BaseHandler
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
