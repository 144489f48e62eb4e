package tetris

import (
	"encoding/json"
	"math"
)

// MoveType classifies a locked piece.
type MoveType int

const (
	MoveNone MoveType = iota
	MoveSingle
	MoveDouble
	MoveTriple
	MoveTetris
	MoveTSpin
	MoveTSpinMini
	MovePerfectClear
)

var moveNames = map[MoveType]string{
	MoveNone:         "none",
	MoveSingle:       "single",
	MoveDouble:       "double",
	MoveTriple:       "triple",
	MoveTetris:       "tetris",
	MoveTSpin:        "t-spin",
	MoveTSpinMini:    "t-spin-mini",
	MovePerfectClear: "perfect-clear",
}

func (m MoveType) String() string {
	if name, ok := moveNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m MoveType) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// movePoints is the base award for each move.
var movePoints = map[MoveType]int{
	MoveSingle:       100,
	MoveDouble:       300,
	MoveTriple:       500,
	MoveTetris:       800,
	MoveTSpin:        400,
	MoveTSpinMini:    100,
	MovePerfectClear: 800,
}

// Points returns the base award for a move.
func (m MoveType) Points() int {
	return movePoints[m]
}

// difficult moves keep a back-to-back chain alive.
func (m MoveType) difficult() bool {
	return m == MoveTetris || m == MoveTSpin || m == MoveTSpinMini
}

// DropKind is how a piece reached its lock position.
type DropKind int

const (
	DropGravity DropKind = iota
	DropSoft
	DropHard
)

var dropMultipliers = [...]int{DropGravity: 1, DropSoft: 1, DropHard: 2}

// tCorners lists the bounding-box corners of a T piece per rotation: the two
// corners the T points towards first, then the two behind it.
var tCorners = [4][4]Point{
	{{0, 0}, {2, 0}, {0, 2}, {2, 2}},
	{{2, 0}, {2, 2}, {0, 0}, {0, 2}},
	{{2, 2}, {0, 2}, {2, 0}, {0, 0}},
	{{0, 2}, {0, 0}, {2, 2}, {2, 0}},
}

// Classify inspects the board after p has been locked and before full rows
// are cleared.
func Classify(b *Board, p *Piece) MoveType {
	if b.EmptyAfterClear() {
		return MovePerfectClear
	}
	switch b.FullRows() {
	case 0:
		return classifyTSpin(b, p)
	case 1:
		return MoveSingle
	case 2:
		return MoveDouble
	case 3:
		return MoveTriple
	default:
		return MoveTetris
	}
}

func classifyTSpin(b *Board, p *Piece) MoveType {
	if p.Type != T {
		return MoveNone
	}
	var filled [4]bool
	for i, c := range tCorners[p.Rotation] {
		filled[i] = b.IsOccupied(p.X+c.X, p.Y+c.Y)
	}
	front := filled[0] && filled[1]
	back := filled[2] && filled[3]
	switch {
	case front && (filled[2] || filled[3]):
		return MoveTSpin
	case back && (filled[0] || filled[1]):
		return MoveTSpinMini
	}
	return MoveNone
}

// LevelThreshold is the default points needed to reach a level.
func LevelThreshold(level int) int {
	l := float64(level)
	return int(400*math.Pow(l, 2.5) + l*l*l)
}

// Scorer accumulates points, cleared lines and level.
type Scorer struct {
	points     int
	lines      int
	level      int
	backToBack bool
	lastMove   MoveType

	bonus      float64
	thresholds []int
}

// NewScorer creates a scorer. thresholds[i] is the points needed for level
// i; bonus is the extra fraction paid on a back-to-back move.
func NewScorer(thresholds []int, bonus float64) *Scorer {
	return &Scorer{thresholds: thresholds, bonus: bonus}
}

// Award records a move and returns the points it earned.
func (s *Scorer) Award(m MoveType, drop DropKind, cleared int) int {
	s.lines += cleared
	s.lastMove = m

	pts := m.Points()
	if m.difficult() {
		if s.backToBack {
			pts += int(float64(pts) * s.bonus)
		}
		s.backToBack = true
	} else if cleared > 0 && m != MovePerfectClear {
		s.backToBack = false
	}
	pts *= dropMultipliers[drop]

	s.points += pts
	for s.level+1 < len(s.thresholds) && s.points >= s.thresholds[s.level+1] {
		s.level++
	}
	return pts
}

func (s *Scorer) Points() int        { return s.points }
func (s *Scorer) Lines() int         { return s.lines }
func (s *Scorer) Level() int         { return s.level }
func (s *Scorer) LastMove() MoveType { return s.lastMove }
func (s *Scorer) BackToBack() bool   { return s.backToBack }

// Reset zeroes all counters.
func (s *Scorer) Reset() {
	s.points, s.lines, s.level = 0, 0, 0
	s.backToBack = false
	s.lastMove = MoveNone
}
