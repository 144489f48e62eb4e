package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/isaacjstriker/notris/internal/auth"
)

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

type apiError struct {
	Error string `json:"error"`
}

var errMissingToken = errors.New("session token required")

// sessionFromRequest verifies the token passed as ?token= or as a bearer
// authorization header. Browsers cannot set headers on websocket upgrades,
// so the query parameter comes first.
func (s *APIServer) sessionFromRequest(r *http.Request) (auth.Session, error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		const bearerPrefix = "Bearer "
		header := r.Header.Get("Authorization")
		if strings.HasPrefix(header, bearerPrefix) {
			token = header[len(bearerPrefix):]
		}
	}
	if token == "" {
		return auth.Session{}, errMissingToken
	}
	return s.issuer.Verify(token)
}
