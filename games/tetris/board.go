package tetris

import "github.com/kamstrup/intmap"

// PieceID identifies a locked piece in the board's arena. Zero is never used.
type PieceID uint32

// cellRef points a board cell at the locked piece that filled it.
type cellRef struct {
	ID    PieceID
	Index uint8
}

type placedPiece struct {
	Type   PieceType
	Blocks [4]BlockHandle
	live   int
}

// Board is the playfield: an occupancy matrix plus the owner of every filled
// cell. Rows are indexed top to bottom.
type Board struct {
	width, height int

	occupied [][]bool
	owners   [][]cellRef

	pieces *intmap.Map[PieceID, *placedPiece]
	nextID PieceID

	pendingRemoved []BlockHandle
}

// NewBoard creates an empty board.
func NewBoard(width, height int) *Board {
	b := &Board{
		width:  width,
		height: height,
		pieces: intmap.New[PieceID, *placedPiece](64),
	}
	b.Clear()
	return b
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// Clear empties the board. Handles are not queued for release; the renderer
// drops every block on ClearBoard.
func (b *Board) Clear() {
	b.pendingRemoved = nil
	b.occupied = make([][]bool, b.height)
	b.owners = make([][]cellRef, b.height)
	for y := range b.occupied {
		b.occupied[y] = make([]bool, b.width)
		b.owners[y] = make([]cellRef, b.width)
	}
	b.pieces.Clear()
	b.nextID = 0
}

// IsOccupied reports whether a cell blocks a piece. The side walls and the
// floor block; the area above row 0 is open.
func (b *Board) IsOccupied(x, y int) bool {
	if x < 0 || x >= b.width || y >= b.height {
		return true
	}
	if y < 0 {
		return false
	}
	return b.occupied[y][x]
}

// Cell returns the type of the piece that filled (x, y).
func (b *Board) Cell(x, y int) (PieceType, bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height || !b.occupied[y][x] {
		return 0, false
	}
	placed, ok := b.pieces.Get(b.owners[y][x].ID)
	if !ok {
		return 0, false
	}
	return placed.Type, true
}

// Owner returns the arena id and local cell index stored at (x, y).
func (b *Board) Owner(x, y int) (PieceID, int, bool) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, false
	}
	ref := b.owners[y][x]
	return ref.ID, int(ref.Index), ref.ID != 0
}

// Pieces returns the number of locked pieces that still own cells.
func (b *Board) Pieces() int {
	return b.pieces.Len()
}

func (b *Board) fits(t PieceType, r Rotation, x, y int) bool {
	for _, c := range cellsAt(t, r, x, y) {
		if b.IsOccupied(c.X, c.Y) {
			return false
		}
	}
	return true
}

// TryFit reports whether the piece fits at its current position and rotation.
func (b *Board) TryFit(p *Piece) bool {
	return b.fits(p.Type, p.Rotation, p.X, p.Y)
}

// TryRotate tries to turn p to rotation to. The unshifted position is tried
// first, then each wall kick in table order; the first fit is applied to the
// piece. On failure the piece is left unchanged.
func (b *Board) TryRotate(p *Piece, to Rotation) bool {
	to = to.Add(0)
	if b.fits(p.Type, to, p.X, p.Y) {
		p.SetRotation(to)
		return true
	}
	for _, k := range KickTests(p.Type, p.Rotation, to) {
		if b.fits(p.Type, to, p.X+k.X, p.Y+k.Y) {
			p.X += k.X
			p.Y += k.Y
			p.SetRotation(to)
			return true
		}
	}
	return false
}

// AddPiece locks p into the board and returns its arena id. Cells above the
// visible field are dropped and their handles queued for release.
func (b *Board) AddPiece(p *Piece) PieceID {
	b.nextID++
	id := b.nextID
	placed := &placedPiece{Type: p.Type, Blocks: p.Blocks}
	for i, c := range p.Cells() {
		if c.X < 0 || c.X >= b.width || c.Y < 0 || c.Y >= b.height {
			b.release(p.Blocks[i])
			continue
		}
		b.occupied[c.Y][c.X] = true
		b.owners[c.Y][c.X] = cellRef{ID: id, Index: uint8(i)}
		placed.live++
	}
	if placed.live > 0 {
		b.pieces.Put(id, placed)
	}
	return id
}

func (b *Board) rowFull(y int) bool {
	for _, filled := range b.occupied[y] {
		if !filled {
			return false
		}
	}
	return true
}

func (b *Board) rowEmpty(y int) bool {
	for _, filled := range b.occupied[y] {
		if filled {
			return false
		}
	}
	return true
}

// FullRows counts rows that are completely filled.
func (b *Board) FullRows() int {
	n := 0
	for y := 0; y < b.height; y++ {
		if b.rowFull(y) {
			n++
		}
	}
	return n
}

// Empty reports whether no cell is filled.
func (b *Board) Empty() bool {
	for y := 0; y < b.height; y++ {
		if !b.rowEmpty(y) {
			return false
		}
	}
	return true
}

// EmptyAfterClear reports whether clearing the current full rows would leave
// the board empty. An already empty board does not count.
func (b *Board) EmptyAfterClear() bool {
	full := 0
	for y := 0; y < b.height; y++ {
		switch {
		case b.rowFull(y):
			full++
		case !b.rowEmpty(y):
			return false
		}
	}
	return full > 0
}

// ClearLines removes every full row, drops the rows above it by one and
// returns how many rows were removed.
func (b *Board) ClearLines() int {
	cleared := 0
	for y := 0; y < b.height; y++ {
		if !b.rowFull(y) {
			continue
		}
		b.releaseRow(y)

		copy(b.occupied[1:y+1], b.occupied[0:y])
		copy(b.owners[1:y+1], b.owners[0:y])
		b.occupied[0] = make([]bool, b.width)
		b.owners[0] = make([]cellRef, b.width)
		cleared++
	}
	return cleared
}

func (b *Board) releaseRow(y int) {
	for _, ref := range b.owners[y] {
		placed, ok := b.pieces.Get(ref.ID)
		if !ok {
			continue
		}
		b.release(placed.Blocks[ref.Index])
		placed.live--
		if placed.live == 0 {
			b.pieces.Del(ref.ID)
		}
	}
}

func (b *Board) release(h BlockHandle) {
	if h != 0 {
		b.pendingRemoved = append(b.pendingRemoved, h)
	}
}

// TakeRemoved drains the handles of cells removed since the last call.
func (b *Board) TakeRemoved() []BlockHandle {
	removed := b.pendingRemoved
	b.pendingRemoved = nil
	return removed
}

// Snapshot returns a copy of the board where 0 is empty and n is piece type
// n-1.
func (b *Board) Snapshot() [][]int {
	rows := make([][]int, b.height)
	for y := range rows {
		rows[y] = make([]int, b.width)
		for x := range rows[y] {
			if t, ok := b.Cell(x, y); ok {
				rows[y][x] = int(t) + 1
			}
		}
	}
	return rows
}
