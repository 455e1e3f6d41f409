package middleware

import (
	"encoding/json"
	"net/http"
)

// errorResponse sends a JSON error body. The middleware layer only ever
// produces error responses; success bodies belong to the handlers.
func errorResponse(w http.ResponseWriter, status int, message string) {
	body, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
