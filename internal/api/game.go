package api

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const writeWait = 2 * time.Second

type clientMessage struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type serverMessage struct {
	Type  string           `json:"type"`
	State *tetris.Snapshot `json:"state,omitempty"`
	Score int              `json:"score,omitempty"`
	Error string           `json:"error,omitempty"`
}

// socketRenderer streams snapshots to the browser. It is called from the
// game loop goroutine, the only writer on the connection.
type socketRenderer struct {
	tetris.NopRenderer
	conn     *websocket.Conn
	log      zerolog.Logger
	failed   bool
	gameOver bool
}

func (r *socketRenderer) send(msg serverMessage) {
	if r.failed {
		return
	}
	r.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := r.conn.WriteJSON(msg); err != nil {
		// The reader sees the closed socket and ends the loop.
		r.failed = true
		r.log.Debug().Err(err).Msg("write failed, closing")
		r.conn.Close()
	}
}

func (r *socketRenderer) Present(s tetris.Snapshot) {
	r.send(serverMessage{Type: "state", State: &s})

	over := s.State == tetris.ToppedOut
	if over && !r.gameOver {
		r.send(serverMessage{Type: "gameOver", Score: s.Score})
	}
	r.gameOver = over
}

// handleGameConnection upgrades an authorized request and plays one game on
// the socket.
func (s *APIServer) handleGameConnection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}
	defer conn.Close()

	c := newClient(context.Background(), sess, conn)
	if err := s.hub.register(c); err != nil {
		conn.WriteJSON(serverMessage{Type: "error", Error: err.Error()})
		return
	}
	defer s.hub.unregister(c)

	s.gameLoop(c)
}

// gameLoop runs the main loop for a single game instance.
func (s *APIServer) gameLoop(c *client) {
	log := s.log.With().Str("session", c.session.ID).Logger()
	renderer := &socketRenderer{conn: c.conn, log: log}
	tuning := s.tuning
	game := tetris.NewTetris(tetris.Options{
		Width:        s.config.BoardWidth,
		Height:       s.config.BoardHeight,
		Rand:         rand.New(rand.NewSource(c.session.Seed)),
		Renderer:     renderer,
		Tuning:       &tuning,
		Preview:      s.config.Preview,
		WaitOnTopOut: !s.config.AutoReset,
		Logger:       &log,
	})

	ticker := time.NewTicker(s.config.TickInterval)
	defer ticker.Stop()

	inputChan := make(chan tetris.Key)
	go s.readInput(c, inputChan, log)

	start := time.Now()
	err := tetris.Run(c.ctx, game, ticker.C, inputChan)
	if errors.Is(err, context.Canceled) {
		renderer.send(serverMessage{Type: "error", Error: "session closed"})
	}
	log.Info().Int("score", game.GetScore()).Int("lines", game.Lines()).
		Dur("played", time.Since(start)).Msg("game finished")
}

// readInput forwards validated key presses. It closes input when the client
// disconnects.
func (s *APIServer) readInput(c *client, input chan<- tetris.Key, log zerolog.Logger) {
	defer close(input)
	limiter := rate.NewLimiter(rate.Limit(s.config.InputRate), s.config.InputBurst)

	for {
		var msg clientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type != "input" {
			continue
		}
		key, ok := tetris.ParseKey(msg.Key)
		if !ok {
			log.Debug().Str("key", msg.Key).Msg("unknown key")
			continue
		}
		if !limiter.Allow() {
			log.Debug().Str("key", msg.Key).Msg("input rate exceeded, dropped")
			continue
		}
		c.touch(time.Now())

		select {
		case input <- key:
		case <-c.ctx.Done():
			return
		}
	}
}
