package middleware

import (
	"net/http"
	"strings"

	"github.com/Ratepiratepi/webfleet-gps-api/pkg/keygen"
)

const unauthorizedMessage = "Unauthorized. Use 'Authorization: Bearer <API_KEY>' header"

// RequireKey guards a handler behind the API key. The key is accepted
// either as a Bearer token or as the api_key query parameter (the stream
// endpoint cannot set headers from a browser). Comparison is constant
// time.
func (m *Middleware) RequireKey(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.authenticated(r) {
			errorResponse(w, http.StatusUnauthorized, unauthorizedMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) authenticated(r *http.Request) bool {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := extractBearerToken(header); ok && keygen.Compare(token, m.apiKey) {
			return true
		}
	}

	if key := r.URL.Query().Get("api_key"); key != "" && keygen.Compare(key, m.apiKey) {
		return true
	}

	return false
}

func extractBearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
