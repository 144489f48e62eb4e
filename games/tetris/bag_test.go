package tetris

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagFairness(t *testing.T) {
	b := NewBag(rand.New(rand.NewSource(42)))
	for cycle := 0; cycle < 20; cycle++ {
		seen := make(map[PieceType]int)
		for i := 0; i < PieceCount; i++ {
			seen[b.Next()]++
		}
		assert.Len(t, seen, PieceCount, "cycle %d", cycle)
		for pt, n := range seen {
			assert.Equal(t, 1, n, "cycle %d: %v drawn %d times", cycle, pt, n)
		}
	}
}

func TestBagDeterministic(t *testing.T) {
	a := NewBag(rand.New(rand.NewSource(7)))
	b := NewBag(rand.New(rand.NewSource(7)))
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestBagPeekMatchesDraws(t *testing.T) {
	b := NewBag(rand.New(rand.NewSource(3)))
	b.Next()
	want := b.Peek(5)
	assert.Len(t, want, 5)

	got := make([]PieceType, 0, 5)
	for range want {
		got = append(got, b.Next())
	}
	assert.Equal(t, want, got)
}

func TestBagPeekBeforeFirstDraw(t *testing.T) {
	b := NewBag(rand.New(rand.NewSource(9)))
	first := b.Peek(1)
	assert.Equal(t, first[0], b.Next())
	assert.Len(t, b.Peek(20), PieceCount)
}

func TestBagReset(t *testing.T) {
	b := NewBag(rand.New(rand.NewSource(11)))
	b.Next()
	b.Next()
	b.Reset()

	seen := make(map[PieceType]bool)
	for i := 0; i < PieceCount; i++ {
		seen[b.Next()] = true
	}
	assert.Len(t, seen, PieceCount)
}
