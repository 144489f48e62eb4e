package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/types"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when a terminal frontend is started without a
// terminal on stdout.
var ErrNotTerminal = errors.New("stdout is not a terminal")

// TermGame plays in the current terminal using ANSI escapes and raw keyboard
// input.
type TermGame struct {
	opts tetris.Options
	tick time.Duration
	out  io.Writer
	log  zerolog.Logger
}

func NewTermGame(opts tetris.Options, tick time.Duration, log zerolog.Logger) *TermGame {
	opts.Logger = &log
	return &TermGame{opts: opts, tick: tick, out: os.Stdout, log: log}
}

func (g *TermGame) GetName() string { return "Terminal" }

func (g *TermGame) GetDescription() string {
	return "Play in this terminal with ANSI colours"
}

func (g *TermGame) IsAvailable() bool { return TerminalAvailable() }

// TerminalAvailable reports whether stdin and stdout are both terminals.
func TerminalAvailable() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// fitsTerminal checks that the board, its border and the side panel fit.
func fitsTerminal(boardW, boardH int) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	needCols, needRows := queueColumn(boardW)+8, boardH+3
	if cols < needCols || rows < needRows {
		return fmt.Errorf("terminal is %dx%d, need at least %dx%d", cols, rows, needCols, needRows)
	}
	return nil
}

func (g *TermGame) Play(ctx context.Context) (*types.GameResult, error) {
	w, h := g.opts.Width, g.opts.Height
	if w <= 0 {
		w = tetris.BoardWidth
	}
	if h <= 0 {
		h = tetris.BoardHeight
	}
	if err := fitsTerminal(w, h); err != nil {
		return nil, err
	}

	if err := keyboard.Open(); err != nil {
		return nil, fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	defer keyboard.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	input := make(chan tetris.Key)
	go g.inputHandler(ctx, input)

	fmt.Fprint(g.out, "\033[?25l")
	defer fmt.Fprint(g.out, "\033[?25h\033[2J\033[H")

	opts := g.opts
	opts.Renderer = NewANSIRenderer(g.out, g.log)
	game := tetris.NewTetris(opts)

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	start := time.Now()
	g.log.Info().Int("width", w).Int("height", h).Msg("terminal game started")
	err := tetris.Run(ctx, game, ticker.C, input)
	result := Result(game, time.Since(start))
	g.log.Info().Int("score", result.Score).Int("lines", result.Lines).Msg("terminal game finished")
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return result, err
}

// inputHandler forwards key presses until q or Esc closes the input channel.
func (g *TermGame) inputHandler(ctx context.Context, input chan<- tetris.Key) {
	defer close(input)
	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if keyboardQuit(char, key) {
			return
		}
		k, ok := keyboardKey(char, key)
		if !ok {
			continue
		}
		select {
		case input <- k:
		case <-ctx.Done():
			return
		}
	}
}

// Result summarizes a finished game.
func Result(g *tetris.Tetris, played time.Duration) *types.GameResult {
	return &types.GameResult{
		GameName: "Notris",
		Score:    g.GetScore(),
		Lines:    g.Lines(),
		Level:    g.Level(),
		Resets:   g.Resets(),
		Duration: played.Seconds(),
		Metadata: map[string]any{"state": g.State().String()},
	}
}

// PrintResult writes the end-of-game summary.
func PrintResult(w io.Writer, r *types.GameResult) {
	fmt.Fprintln(w, "GAME OVER!")
	fmt.Fprintf(w, "Final Score: %d\n", r.Score)
	fmt.Fprintf(w, "Lines: %d | Level: %d | Restarts: %d\n", r.Lines, r.Level, r.Resets)
	fmt.Fprintf(w, "Played for %.0fs\n", r.Duration)
}
