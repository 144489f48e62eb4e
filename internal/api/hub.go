package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isaacjstriker/notris/internal/auth"
	"github.com/rs/zerolog"
)

// ErrSessionInUse is returned when a second socket presents the token of a
// session that is already playing.
var ErrSessionInUse = errors.New("session already connected")

// client is one websocket playing one session.
type client struct {
	session   auth.Session
	conn      *websocket.Conn
	ctx       context.Context
	cancel    context.CancelFunc
	lastInput atomic.Int64
}

func newClient(ctx context.Context, session auth.Session, conn *websocket.Conn) *client {
	c := &client{session: session, conn: conn}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.touch(time.Now())
	return c
}

func (c *client) touch(now time.Time) { c.lastInput.Store(now.UnixNano()) }

func (c *client) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, c.lastInput.Load()))
}

// Hub tracks the sessions being played and stops the idle ones.
type Hub struct {
	clients map[string]*client
	mutex   sync.RWMutex
	idle    time.Duration
	log     zerolog.Logger
}

func NewHub(idle time.Duration, log zerolog.Logger) *Hub {
	return &Hub{clients: make(map[string]*client), idle: idle, log: log}
}

func (h *Hub) register(c *client) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c.session.ID]; ok {
		return ErrSessionInUse
	}
	h.clients[c.session.ID] = c
	h.log.Info().Str("session", c.session.ID).Int("active", len(h.clients)).Msg("client connected")
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if cur, ok := h.clients[c.session.ID]; ok && cur == c {
		delete(h.clients, c.session.ID)
		c.cancel()
		h.log.Info().Str("session", c.session.ID).Int("active", len(h.clients)).Msg("client disconnected")
	}
}

// Len returns the number of connected sessions.
func (h *Hub) Len() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// Run reaps idle sessions every interval until ctx ends, then stops every
// remaining session.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			h.reap(now)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// reap stops the sessions without input for longer than the idle limit.
func (h *Hub) reap(now time.Time) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	n := 0
	for id, c := range h.clients {
		if c.idleSince(now) > h.idle {
			h.log.Info().Str("session", id).Msg("closing idle session")
			c.cancel()
			n++
		}
	}
	return n
}

func (h *Hub) closeAll() {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for _, c := range h.clients {
		c.cancel()
	}
}
