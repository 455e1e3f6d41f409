package handler

import "net/http"

type envelope map[string]any

// errorResponse sends a JSON-formatted error body. If encoding fails the
// client gets an empty 500 instead.
func errorResponse(w http.ResponseWriter, status int, message any) {
	env := envelope{"error": message}

	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(500)
	}
}
