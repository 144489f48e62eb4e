package tetris

import "fmt"

// kickKey is a rotation transition.
type kickKey struct {
	from, to Rotation
}

// Kick tables use SRS notation where +y is up; they are applied with the
// y component negated. The naive position is tried before these candidates.
var basicKicks = map[kickKey][4]Point{
	{0, 1}: {{-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{1, 0}: {{1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{1, 2}: {{1, 0}, {1, -1}, {0, 2}, {1, 2}},
	{2, 1}: {{-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	{2, 3}: {{1, 0}, {1, 1}, {0, -2}, {1, -2}},
	{3, 2}: {{-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{3, 0}: {{-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	{0, 3}: {{1, 0}, {1, 1}, {0, -2}, {1, -2}},
}

var iKicks = map[kickKey][4]Point{
	{0, 1}: {{-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{1, 0}: {{2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{1, 2}: {{-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	{2, 1}: {{1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{2, 3}: {{2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	{3, 2}: {{-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	{3, 0}: {{1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	{0, 3}: {{-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
}

// KickTests returns the ordered wall-kick candidates, in board coordinates,
// for rotating a piece of type t from one rotation to another. O pieces and
// transitions between equal rotations have no candidates.
func KickTests(t PieceType, from, to Rotation) []Point {
	if t == O || from == to {
		return nil
	}
	table := basicKicks
	if t == I {
		table = iKicks
	}
	tests, ok := table[kickKey{from, to}]
	if !ok {
		panic(fmt.Errorf("kick %v %d>>%d: %w", t, from, to, ErrInvalidLookup))
	}
	out := make([]Point, len(tests))
	for i, k := range tests {
		out[i] = Point{X: k.X, Y: -k.Y}
	}
	return out
}
