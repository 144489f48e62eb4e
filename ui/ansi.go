package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/isaacjstriker/notris/games/tetris"
	"github.com/rs/zerolog"
)

var ansiColors = [tetris.PieceCount]string{
	tetris.I: "\033[96m",
	tetris.J: "\033[34m",
	tetris.L: "\033[33m",
	tetris.O: "\033[93m",
	tetris.S: "\033[32m",
	tetris.T: "\033[35m",
	tetris.Z: "\033[31m",
}

const ansiReset = "\033[0m"

// ANSIRenderer repaints the whole frame with escape sequences on every
// Present, the way the menu draws itself.
type ANSIRenderer struct {
	out    io.Writer
	blocks blockTable
	queue  []tetris.BlockHandle
	buf    bytes.Buffer
	log    zerolog.Logger
}

func NewANSIRenderer(out io.Writer, log zerolog.Logger) *ANSIRenderer {
	return &ANSIRenderer{out: out, blocks: newBlockTable(log), log: log}
}

func (r *ANSIRenderer) DrawPiece(p tetris.Preview, blocks [4]tetris.BlockHandle, _ bool) [4]tetris.BlockHandle {
	return r.blocks.place(p, blocks)
}

func (r *ANSIRenderer) DrawBlock(x, y int, t tetris.PieceType) tetris.BlockHandle {
	return r.blocks.add(x, y, t)
}

func (r *ANSIRenderer) DrawBoundaries(int, int) {
	io.WriteString(r.out, "\033[2J")
}

func (r *ANSIRenderer) ClearLines(removed []tetris.BlockHandle) { r.blocks.release(removed) }

func (r *ANSIRenderer) ClearBoard() {
	r.blocks.reset()
	r.queue = nil
}

func (r *ANSIRenderer) DrawNext(next []tetris.Preview) {
	r.queue = r.blocks.redrawQueue(r.queue, next, r.DrawBlock)
}

// CoordToPixel maps a board cell to the terminal column and row of its left
// half. Cells are two columns wide behind a one-column border.
func (r *ANSIRenderer) CoordToPixel(x, y int) (int, int) { return 1 + 2*x, 1 + y }
func (r *ANSIRenderer) PixelToCoord(px, py int) (int, int) { return (px - 1) / 2, py - 1 }

func (r *ANSIRenderer) Present(s tetris.Snapshot) {
	r.buf.Reset()
	r.buf.WriteString("\033[H")
	renderFrame(&r.buf, s)
	r.renderQueue(s.Width)
	if _, err := r.out.Write(r.buf.Bytes()); err != nil {
		r.log.Error().Err(err).Msg("write frame")
	}
}

// queueColumn is the screen column, 1-based, of the next-queue preview for a
// board of the given width. It sits right of the side panel.
func queueColumn(width int) int { return 2*width + 28 }

// renderQueue paints the next-queue blocks by cursor addressing, between a
// cursor save and restore so the frame above stays line-oriented.
func (r *ANSIRenderer) renderQueue(width int) {
	r.buf.WriteString(cursorSave)
	for _, h := range r.queue {
		blk, err := r.blocks.get(h)
		if err != nil {
			r.log.Warn().Err(err).Msg("queue block")
			continue
		}
		fmt.Fprintf(&r.buf, "\033[%d;%dH%s██%s", 2+blk.y, queueColumn(width)+2*blk.x, ansiColors[blk.piece], ansiReset)
	}
	r.buf.WriteString(cursorRestore)
}

const (
	cursorSave    = "\0337"
	cursorRestore = "\0338"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellLocked
	cellActive
	cellGhost
)

// classifyCells resolves what sits in every board cell of a snapshot.
func classifyCells(s tetris.Snapshot) ([][]cellKind, [][]tetris.PieceType) {
	kinds := make([][]cellKind, s.Height)
	types := make([][]tetris.PieceType, s.Height)
	for y := range kinds {
		kinds[y] = make([]cellKind, s.Width)
		types[y] = make([]tetris.PieceType, s.Width)
		for x := range kinds[y] {
			if v := s.Board[y][x]; v > 0 {
				kinds[y][x] = cellLocked
				types[y][x] = tetris.PieceType(v - 1)
			}
		}
	}
	inside := func(c tetris.Point) bool {
		return c.X >= 0 && c.X < s.Width && c.Y >= 0 && c.Y < s.Height
	}
	if s.Active != nil {
		for _, c := range s.Ghost {
			if inside(c) && kinds[c.Y][c.X] == cellEmpty {
				kinds[c.Y][c.X] = cellGhost
				types[c.Y][c.X] = s.Active.Type
			}
		}
		for _, c := range s.Cells {
			if inside(c) {
				kinds[c.Y][c.X] = cellActive
				types[c.Y][c.X] = s.Active.Type
			}
		}
	}
	return kinds, types
}

func sidePanel(s tetris.Snapshot) []string {
	hold := "-"
	if s.Hold != nil {
		hold = s.Hold.String()
	}
	next := make([]string, len(s.Next))
	for i, pt := range s.Next {
		next[i] = pt.String()
	}

	panel := []string{
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("Lines: %d", s.Lines),
		fmt.Sprintf("Level: %d", s.Level),
		"",
		"Hold:  " + hold,
		"Next:  " + strings.Join(next, " "),
		"",
	}
	if s.LastMove != tetris.MoveNone {
		panel = append(panel, strings.ToUpper(s.LastMove.String()))
	}
	switch s.State {
	case tetris.Paused:
		panel = append(panel, "", "PAUSED")
	case tetris.ToppedOut:
		panel = append(panel, "", "GAME OVER", "press r to restart")
	}
	return panel
}

// renderFrame writes one full frame: the bordered board with a side panel.
func renderFrame(w *bytes.Buffer, s tetris.Snapshot) {
	kinds, types := classifyCells(s)
	panel := sidePanel(s)

	w.WriteString("╔" + strings.Repeat("══", s.Width) + "╗\033[K\n")
	for y := 0; y < s.Height; y++ {
		w.WriteString("║")
		for x := 0; x < s.Width; x++ {
			switch kinds[y][x] {
			case cellLocked, cellActive:
				w.WriteString(ansiColors[types[y][x]] + "██" + ansiReset)
			case cellGhost:
				w.WriteString(ansiColors[types[y][x]] + "░░" + ansiReset)
			default:
				w.WriteString("  ")
			}
		}
		w.WriteString("║")
		if y < len(panel) {
			w.WriteString("  " + panel[y])
		}
		w.WriteString("\033[K\n")
	}
	w.WriteString("╚" + strings.Repeat("══", s.Width) + "╝\033[K\n")
	w.WriteString(Controls + "\033[K\n")
}
