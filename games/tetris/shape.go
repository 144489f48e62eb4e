package tetris

import (
	"errors"
	"fmt"
)

// ErrInvalidLookup is the panic value for shape or kick lookups outside the
// table domain. Rotations are normalized before every lookup, so reaching it
// is a programming error.
var ErrInvalidLookup = errors.New("invalid lookup")

// PieceType identifies one of the seven tetrominoes.
type PieceType uint8

const (
	I PieceType = iota
	J
	L
	O
	S
	T
	Z
)

// PieceCount is the number of distinct piece types.
const PieceCount = 7

// AllPieces lists every piece type in table order.
var AllPieces = [PieceCount]PieceType{I, J, L, O, S, T, Z}

var pieceNames = [PieceCount]string{"I", "J", "L", "O", "S", "T", "Z"}

func (t PieceType) String() string {
	if int(t) < len(pieceNames) {
		return pieceNames[t]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(t))
}

// Valid reports whether t is one of the seven piece types.
func (t PieceType) Valid() bool {
	return t < PieceCount
}

// MarshalText encodes the piece type as its letter.
func (t PieceType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("marshal %v: %w", t, ErrInvalidLookup)
	}
	return []byte(pieceNames[t]), nil
}

// UnmarshalText decodes a piece letter.
func (t *PieceType) UnmarshalText(text []byte) error {
	p, err := ParsePieceType(string(text))
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// ParsePieceType returns the piece type named by a single letter.
func ParsePieceType(s string) (PieceType, error) {
	for i, name := range pieceNames {
		if name == s {
			return PieceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown piece type %q", s)
}

// Rotation is an orientation in [0,3]; 0 is the spawn orientation.
type Rotation int

// Add returns r turned by d quarter turns, normalized into [0,3].
func (r Rotation) Add(d int) Rotation {
	return Rotation(((int(r)+d)%4 + 4) % 4)
}

// Point is a cell coordinate. Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Shape holds the four cell offsets of a piece relative to its anchor.
type Shape [4]Point

// shapes is indexed by piece type then rotation. J, L, S, T and Z live in a
// 3x3 box, I in a 4-wide box, O in a 2x2 box.
var shapes = [PieceCount][4]Shape{
	I: {
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
		{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	J: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	L: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
	O: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	S: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	T: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	Z: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
}

// boxWidths is the width of each piece's bounding box, used to centre spawns.
var boxWidths = [PieceCount]int{I: 4, J: 3, L: 3, O: 2, S: 3, T: 3, Z: 3}

// ShapeOf returns the cell offsets for a piece type at a rotation.
func ShapeOf(t PieceType, r Rotation) Shape {
	if !t.Valid() || r < 0 || r > 3 {
		panic(fmt.Errorf("shape of %v rotation %d: %w", t, r, ErrInvalidLookup))
	}
	return shapes[t][r]
}

// SpawnX returns the anchor column that centres a piece on a board.
func SpawnX(t PieceType, width int) int {
	return (width - boxWidths[t]) / 2
}
