package api

import (
	"errors"
	"io"
	"math/rand"
	"net/http"

	"github.com/google/uuid"
	"github.com/isaacjstriker/notris/internal/auth"
)

// SessionRequest optionally pins the piece sequence of the new game.
type SessionRequest struct {
	Seed *int64 `json:"seed,omitempty"`
}

// SessionResponse carries the token the client presents on /ws/game.
type SessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	Seed      int64  `json:"seed"`
	ExpiresIn int    `json:"expiresIn"`
}

// handleCreateSession issues a signed token for a new single-player game.
func (s *APIServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	sess := auth.Session{ID: uuid.NewString(), Seed: s.seed(req)}
	token, err := s.issuer.Issue(sess)
	if err != nil {
		s.log.Error().Err(err).Msg("issue session token")
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to create token"})
		return
	}

	s.log.Debug().Str("session", sess.ID).Int64("seed", sess.Seed).Msg("session created")
	writeJSON(w, http.StatusCreated, SessionResponse{
		Token:     token,
		SessionID: sess.ID,
		Seed:      sess.Seed,
		ExpiresIn: int(s.config.SessionTTL.Seconds()),
	})
}

func (s *APIServer) seed(req SessionRequest) int64 {
	switch {
	case req.Seed != nil:
		return *req.Seed
	case s.config.Seed != 0:
		return s.config.Seed
	}
	return rand.Int63()
}
