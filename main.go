package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isaacjstriker/notris/games"
	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/api"
	"github.com/isaacjstriker/notris/internal/config"
	"github.com/isaacjstriker/notris/internal/logger"
	"github.com/isaacjstriker/notris/internal/types"
	"github.com/isaacjstriker/notris/ui"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "notris:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry := newRegistry(cfg)

	var choice string
	if len(args) > 0 {
		choice = args[0]
	} else {
		choice = ui.NewMenu(cfg.AppName, registry.MenuItems()).Show()
	}
	if choice == "" || choice == "exit" {
		return nil
	}

	// The server owns stderr; terminal frontends own the screen and log to a file.
	var log zerolog.Logger
	if choice == "serve" {
		log, err = logger.New(cfg.LogLevel, os.Stderr)
	} else {
		var closer io.Closer
		log, closer, err = logger.NewFile(cfg.LogLevel, "notris.log")
		if closer != nil {
			defer closer.Close()
		}
	}
	if err != nil {
		return err
	}

	game, err := registry.Get(choice, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("frontend", choice).Msg("starting")
	result, err := game.Play(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if result != nil && choice != "serve" {
		ui.PrintResult(os.Stdout, result)
	}
	return nil
}

func newRegistry(cfg *config.Config) *games.GameRegistry {
	registry := games.NewGameRegistry()
	registry.RegisterGame(games.Frontend{
		Key:         "term",
		Name:        "Terminal",
		Description: "Play in this terminal with ANSI colours",
		Available:   ui.TerminalAvailable,
		New: func(log zerolog.Logger) types.Game {
			return ui.NewTermGame(gameOptions(cfg, log), cfg.TickInterval, log)
		},
	})
	registry.RegisterGame(games.Frontend{
		Key:         "tcell",
		Name:        "Full screen",
		Description: "Play on a tcell screen with resize support",
		New: func(log zerolog.Logger) types.Game {
			return ui.NewTcellGame(gameOptions(cfg, log), cfg.TickInterval, log)
		},
	})
	registry.RegisterGame(games.Frontend{
		Key:         "serve",
		Name:        "Browser",
		Description: "Serve games over websocket at http://" + cfg.ListenAddr(),
		New: func(log zerolog.Logger) types.Game {
			return games.NewServerGame(api.NewAPIServer(cfg, loadTuning(cfg, log), log), cfg.ListenAddr())
		},
	})
	return registry
}

func gameOptions(cfg *config.Config, log zerolog.Logger) tetris.Options {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	tuning := loadTuning(cfg, log)
	return tetris.Options{
		Width:        cfg.BoardWidth,
		Height:       cfg.BoardHeight,
		Rand:         rand.New(rand.NewSource(seed)),
		Tuning:       &tuning,
		Preview:      cfg.Preview,
		WaitOnTopOut: !cfg.AutoReset,
	}
}

// loadTuning falls back to the built-in curve when the script is broken so a
// typo in the script never blocks a game.
func loadTuning(cfg *config.Config, log zerolog.Logger) tetris.Tuning {
	tuning, err := tetris.LoadTuning(cfg.TuningScript, log)
	if err != nil {
		log.Error().Err(err).Str("script", cfg.TuningScript).Msg("tuning script rejected, using defaults")
		return tetris.DefaultTuning()
	}
	return tuning
}
