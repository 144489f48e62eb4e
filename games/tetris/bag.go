package tetris

import "math/rand"

// pieceSet is a bitset of piece types.
type pieceSet uint8

const allPieces pieceSet = 1<<PieceCount - 1

func (s pieceSet) has(t PieceType) bool      { return s&(1<<t) != 0 }
func (s pieceSet) with(t PieceType) pieceSet { return s | 1<<t }

func (s pieceSet) missing() []PieceType {
	out := make([]PieceType, 0, PieceCount)
	for _, t := range AllPieces {
		if !s.has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Randomizer supplies piece types to the game.
type Randomizer interface {
	Next() PieceType
	// Peek returns the next n types without drawing them.
	Peek(n int) []PieceType
	Reset()
}

// Bag is a 7-bag randomizer. Pieces are drawn from the back of the bag while
// the front is topped up one piece per draw from the next cycle, so the bag
// doubles as the preview queue.
type Bag struct {
	rng     *rand.Rand
	pending []PieceType
	fed     pieceSet
}

// NewBag creates a bag drawing from rng.
func NewBag(rng *rand.Rand) *Bag {
	return &Bag{rng: rng}
}

// Next returns the next piece type.
func (b *Bag) Next() PieceType {
	if len(b.pending) == 0 {
		b.refill()
	}

	missing := b.fed.missing()
	if len(missing) == 0 {
		b.fed = 0
		missing = AllPieces[:]
	}
	t := missing[b.rng.Intn(len(missing))]
	b.fed = b.fed.with(t)
	b.pending = append([]PieceType{t}, b.pending...)

	last := len(b.pending) - 1
	next := b.pending[last]
	b.pending = b.pending[:last]
	return next
}

// Peek returns up to n upcoming types in draw order.
func (b *Bag) Peek(n int) []PieceType {
	if len(b.pending) == 0 {
		b.refill()
	}
	if n > len(b.pending) {
		n = len(b.pending)
	}
	out := make([]PieceType, n)
	for i := range out {
		out[i] = b.pending[len(b.pending)-1-i]
	}
	return out
}

// Reset empties the bag; the next draw starts a fresh cycle.
func (b *Bag) Reset() {
	b.pending = b.pending[:0]
	b.fed = 0
}

func (b *Bag) refill() {
	b.pending = append(b.pending[:0], AllPieces[:]...)
	b.rng.Shuffle(len(b.pending), func(i, j int) {
		b.pending[i], b.pending[j] = b.pending[j], b.pending[i]
	})
	b.fed = 0
}
