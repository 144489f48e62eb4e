package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/isaacjstriker/notris/internal/types"
	"github.com/rs/zerolog"
)

var tcellColors = [tetris.PieceCount]tcell.Color{
	tetris.I: tcell.ColorAqua,
	tetris.J: tcell.ColorBlue,
	tetris.L: tcell.ColorOrange,
	tetris.O: tcell.ColorYellow,
	tetris.S: tcell.ColorGreen,
	tetris.T: tcell.ColorPurple,
	tetris.Z: tcell.ColorRed,
}

// TcellRenderer draws onto a tcell screen. The board's top-left border
// corner sits at the screen origin.
type TcellRenderer struct {
	screen tcell.Screen
	blocks blockTable
	queue  []tetris.BlockHandle
}

func NewTcellRenderer(screen tcell.Screen, log zerolog.Logger) *TcellRenderer {
	return &TcellRenderer{screen: screen, blocks: newBlockTable(log)}
}

func (r *TcellRenderer) DrawPiece(p tetris.Preview, blocks [4]tetris.BlockHandle, _ bool) [4]tetris.BlockHandle {
	return r.blocks.place(p, blocks)
}

func (r *TcellRenderer) DrawBlock(x, y int, t tetris.PieceType) tetris.BlockHandle {
	return r.blocks.add(x, y, t)
}

func (r *TcellRenderer) DrawBoundaries(int, int)                { r.screen.Clear() }
func (r *TcellRenderer) ClearLines(removed []tetris.BlockHandle) { r.blocks.release(removed) }

func (r *TcellRenderer) ClearBoard() {
	r.blocks.reset()
	r.queue = nil
}

func (r *TcellRenderer) DrawNext(next []tetris.Preview) {
	r.queue = r.blocks.redrawQueue(r.queue, next, r.DrawBlock)
}

func (r *TcellRenderer) CoordToPixel(x, y int) (int, int)   { return 1 + 2*x, 1 + y }
func (r *TcellRenderer) PixelToCoord(px, py int) (int, int) { return (px - 1) / 2, py - 1 }

func (r *TcellRenderer) puts(x, y int, style tcell.Style, s string) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func (r *TcellRenderer) Present(s tetris.Snapshot) {
	r.screen.Clear()
	border := tcell.StyleDefault.Foreground(tcell.ColorGray)
	right := 2*s.Width + 1

	for x := 1; x < right; x++ {
		r.screen.SetContent(x, 0, '═', nil, border)
		r.screen.SetContent(x, s.Height+1, '═', nil, border)
	}
	for y := 1; y <= s.Height; y++ {
		r.screen.SetContent(0, y, '║', nil, border)
		r.screen.SetContent(right, y, '║', nil, border)
	}
	r.screen.SetContent(0, 0, '╔', nil, border)
	r.screen.SetContent(right, 0, '╗', nil, border)
	r.screen.SetContent(0, s.Height+1, '╚', nil, border)
	r.screen.SetContent(right, s.Height+1, '╝', nil, border)

	kinds, types := classifyCells(s)
	for y := range kinds {
		for x, kind := range kinds[y] {
			var ch rune
			switch kind {
			case cellLocked, cellActive:
				ch = '█'
			case cellGhost:
				ch = '░'
			default:
				continue
			}
			style := tcell.StyleDefault.Foreground(tcellColors[types[y][x]])
			px, py := r.CoordToPixel(x, y)
			r.screen.SetContent(px, py, ch, nil, style)
			r.screen.SetContent(px+1, py, ch, nil, style)
		}
	}

	for i, line := range sidePanel(s) {
		r.puts(right+3, 1+i, tcell.StyleDefault, line)
	}

	// Next queue, right of the panel. Zero-based, so one left of the ANSI column.
	qx := queueColumn(s.Width) - 1
	for _, h := range r.queue {
		blk, err := r.blocks.get(h)
		if err != nil {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcellColors[blk.piece])
		r.screen.SetContent(qx+2*blk.x, 1+blk.y, '█', nil, style)
		r.screen.SetContent(qx+2*blk.x+1, 1+blk.y, '█', nil, style)
	}
	r.puts(0, s.Height+2, tcell.StyleDefault.Dim(true), Controls)
	r.screen.Show()
}

// TcellGame plays on a full-screen tcell display.
type TcellGame struct {
	opts      tetris.Options
	tick      time.Duration
	log       zerolog.Logger
	newScreen func() (tcell.Screen, error)
}

func NewTcellGame(opts tetris.Options, tick time.Duration, log zerolog.Logger) *TcellGame {
	opts.Logger = &log
	return &TcellGame{opts: opts, tick: tick, log: log, newScreen: tcell.NewScreen}
}

func (g *TcellGame) GetName() string { return "Full screen" }

func (g *TcellGame) GetDescription() string {
	return "Play on a tcell screen with resize support"
}

func (g *TcellGame) IsAvailable() bool { return true }

func (g *TcellGame) Play(ctx context.Context) (*types.GameResult, error) {
	screen, err := g.newScreen()
	if err != nil {
		return nil, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	input := make(chan tetris.Key)
	go pumpEvents(ctx, screen, input)

	opts := g.opts
	opts.Renderer = NewTcellRenderer(screen, g.log)
	game := tetris.NewTetris(opts)

	ticker := time.NewTicker(g.tick)
	defer ticker.Stop()

	start := time.Now()
	err = tetris.Run(ctx, game, ticker.C, input)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return Result(game, time.Since(start)), err
}

// pumpEvents turns screen events into game keys. It closes input when the
// player quits or the screen is finalized.
func pumpEvents(ctx context.Context, screen tcell.Screen, input chan<- tetris.Key) {
	defer close(input)
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if tcellQuit(ev) {
				return
			}
			k, ok := tcellKey(ev)
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
}
