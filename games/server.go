package games

import (
	"context"
	"time"

	"github.com/isaacjstriker/notris/internal/api"
	"github.com/isaacjstriker/notris/internal/types"
)

// ServerGame hosts browser games until its context ends.
type ServerGame struct {
	server *api.APIServer
	addr   string
}

func NewServerGame(server *api.APIServer, addr string) *ServerGame {
	return &ServerGame{server: server, addr: addr}
}

func (g *ServerGame) GetName() string { return "Browser" }

func (g *ServerGame) GetDescription() string {
	return "Serve games over websocket at http://" + g.addr
}

func (g *ServerGame) IsAvailable() bool { return true }

// Play serves until ctx is cancelled. The result carries no score: every
// browser session is logged when it ends.
func (g *ServerGame) Play(ctx context.Context) (*types.GameResult, error) {
	start := time.Now()
	err := g.server.Start(ctx)
	return &types.GameResult{
		GameName: g.GetName(),
		Duration: time.Since(start).Seconds(),
		Metadata: map[string]any{"addr": g.addr},
	}, err
}
