package tetris

import "errors"

// ErrBlockNotFound is returned by renderers asked about a handle they do not
// own. It is recoverable: the renderer skips or redraws.
var ErrBlockNotFound = errors.New("block not found")

// BlockHandle is an opaque renderer reference to one drawn cell. Zero means
// no block has been drawn.
type BlockHandle int

// Renderer consumes game state for display. Calls are made from the goroutine
// that owns the game; implementations must not mutate the game.
type Renderer interface {
	// DrawPiece draws or updates the four cells of a piece and returns their
	// handles. blocks holds the handles from the previous draw, if any.
	DrawPiece(p Preview, blocks [4]BlockHandle, active bool) [4]BlockHandle
	DrawBlock(x, y int, t PieceType) BlockHandle
	DrawBoundaries(width, height int)
	// ClearLines releases handles whose cells left the board. Each handle is
	// passed exactly once.
	ClearLines(removed []BlockHandle)
	ClearBoard()
	DrawNext(next []Preview)
	CoordToPixel(x, y int) (px, py int)
	PixelToCoord(px, py int) (x, y int)
	// Present receives the state after every simulation step.
	Present(s Snapshot)
}

// NopRenderer hands out handles and draws nothing. It backs headless games.
type NopRenderer struct {
	next BlockHandle
}

func (r *NopRenderer) DrawPiece(_ Preview, blocks [4]BlockHandle, _ bool) [4]BlockHandle {
	for i := range blocks {
		if blocks[i] == 0 {
			r.next++
			blocks[i] = r.next
		}
	}
	return blocks
}

func (r *NopRenderer) DrawBlock(int, int, PieceType) BlockHandle {
	r.next++
	return r.next
}

func (r *NopRenderer) DrawBoundaries(int, int)          {}
func (r *NopRenderer) ClearLines([]BlockHandle)         {}
func (r *NopRenderer) ClearBoard()                      {}
func (r *NopRenderer) DrawNext([]Preview)               {}
func (r *NopRenderer) CoordToPixel(x, y int) (int, int) { return x, y }
func (r *NopRenderer) PixelToCoord(x, y int) (int, int) { return x, y }
func (r *NopRenderer) Present(Snapshot)                 {}
