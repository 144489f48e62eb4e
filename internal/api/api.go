package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/auth"
	"github.com/isaacjstriker/notris/internal/config"
	"github.com/isaacjstriker/notris/web"
	"github.com/rs/zerolog"
)

const (
	idleTimeout     = 10 * time.Minute
	cleanupInterval = time.Minute
	shutdownTimeout = 5 * time.Second
)

// APIServer hosts single-player games for browser clients.
type APIServer struct {
	listenAddr string
	config     *config.Config
	tuning     tetris.Tuning
	issuer     *auth.Issuer
	hub        *Hub
	upgrader   websocket.Upgrader
	log        zerolog.Logger
}

func NewAPIServer(cfg *config.Config, tuning tetris.Tuning, log zerolog.Logger) *APIServer {
	return &APIServer{
		listenAddr: cfg.ListenAddr(),
		config:     cfg,
		tuning:     tuning,
		issuer:     auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL),
		hub:        NewHub(idleTimeout, log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log,
	}
}

// Routes builds the HTTP handler.
func (s *APIServer) Routes() http.Handler {
	router := http.NewServeMux()

	staticFS, err := fs.Sub(web.Files, "static")
	if err != nil {
		panic(fmt.Errorf("static filesystem: %w", err))
	}
	router.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	router.HandleFunc("/", s.handleIndex)

	router.HandleFunc("POST /api/session", s.handleCreateSession)
	router.HandleFunc("GET /healthz", s.handleHealth)
	router.HandleFunc("GET /ws/game", s.handleGameConnection)
	return router
}

// Start serves until ctx is cancelled, then shuts down and stops every game.
func (s *APIServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listenAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx, cleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.listenAddr).Msg("API server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("could not start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.Info().Msg("API server stopped")
	return nil
}

// handleIndex serves the browser client.
func (s *APIServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	indexHTML, err := web.Files.ReadFile("templates/index.html")
	if err != nil {
		http.Error(w, "could not read index file", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write(indexHTML)
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: s.hub.Len()})
}
