package tetris

// Direction is a rotation direction.
type Direction int

const (
	Clockwise        Direction = 1
	CounterClockwise Direction = -1
)

// Piece represents a falling tetromino. X and Y anchor the top-left corner of
// its bounding box.
type Piece struct {
	Type     PieceType
	Rotation Rotation
	X, Y     int

	// Blocks are the renderer handles drawn for this piece.
	Blocks [4]BlockHandle
}

// Preview describes a piece for display only: next queue, hold slot.
type Preview struct {
	Type     PieceType `json:"type"`
	Rotation Rotation  `json:"rotation"`
	X        int       `json:"x"`
	Y        int       `json:"y"`
}

// Cells returns the absolute coordinates of a preview's cells.
func (p Preview) Cells() [4]Point {
	return cellsAt(p.Type, p.Rotation, p.X, p.Y)
}

// NewPiece creates a piece in spawn orientation at (x, y).
func NewPiece(t PieceType, x, y int) *Piece {
	return &Piece{Type: t, X: x, Y: y}
}

// Rotate turns the piece a quarter turn. It does not check collisions.
func (p *Piece) Rotate(dir Direction) {
	p.Rotation = p.Rotation.Add(int(dir))
}

// SetRotation sets an absolute rotation.
func (p *Piece) SetRotation(r Rotation) {
	if p.Rotation == r {
		return
	}
	p.Rotation = r.Add(0)
}

// Cells returns the absolute coordinates of the piece's four cells.
func (p *Piece) Cells() [4]Point {
	return cellsAt(p.Type, p.Rotation, p.X, p.Y)
}

// Preview returns a display descriptor for the piece's current placement.
func (p *Piece) Preview() Preview {
	return Preview{Type: p.Type, Rotation: p.Rotation, X: p.X, Y: p.Y}
}

func cellsAt(t PieceType, r Rotation, x, y int) [4]Point {
	var cells [4]Point
	for i, off := range ShapeOf(t, r) {
		cells[i] = Point{X: x + off.X, Y: y + off.Y}
	}
	return cells
}
