package tetris

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStopsWhenInputCloses(t *testing.T) {
	g, _ := newTestGame(Options{}, I)
	ticks := make(chan time.Time)
	input := make(chan Key)

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), g, ticks, input) }()

	ticks <- time.Now()
	input <- KeyHardDrop
	close(input)

	require.NoError(t, <-done)
	assert.True(t, g.Board().IsOccupied(3, BoardHeight-1))
}

func TestRunStopsOnCancel(t *testing.T) {
	g, _ := newTestGame(Options{}, I)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, g, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
