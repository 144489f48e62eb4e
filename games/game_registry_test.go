package games

import (
	"context"
	"testing"

	"github.com/isaacjstriker/notris/internal/types"
	"github.com/isaacjstriker/notris/ui"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGame struct{ name string }

func (g fakeGame) GetName() string        { return g.name }
func (g fakeGame) GetDescription() string { return "a " + g.name }
func (g fakeGame) IsAvailable() bool      { return true }
func (g fakeGame) Play(context.Context) (*types.GameResult, error) {
	return &types.GameResult{GameName: g.name}, nil
}

// fake registers a frontend and counts how often it is built.
func fake(key, name string, available bool, built *int) Frontend {
	return Frontend{
		Key:         key,
		Name:        name,
		Description: "a " + name,
		Available:   func() bool { return available },
		New: func(zerolog.Logger) types.Game {
			*built++
			return fakeGame{name: name}
		},
	}
}

func newTestRegistry(built *int) *GameRegistry {
	gr := NewGameRegistry()
	gr.RegisterGame(fake("term", "Terminal", true, built))
	gr.RegisterGame(fake("gpu", "GPU", false, built))
	gr.RegisterGame(fake("serve", "Browser", true, built))
	return gr
}

func TestRegistryMenuDoesNotBuild(t *testing.T) {
	var built int
	gr := newTestRegistry(&built)
	assert.Equal(t, []string{"gpu", "serve", "term"}, gr.Keys())

	assert.Equal(t, []ui.MenuItem{
		{Label: "Terminal - a Terminal", Value: "term"},
		{Label: "Browser - a Browser", Value: "serve"},
		{Label: "Exit", Value: "exit"},
	}, gr.MenuItems())
	assert.Len(t, gr.Available(), 2)
	assert.Zero(t, built)
}

func TestRegistryGet(t *testing.T) {
	var built int
	gr := newTestRegistry(&built)

	game, err := gr.Get("serve", zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "Browser", game.GetName())
	assert.Equal(t, 1, built)

	_, err = gr.Get("gpu", zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = gr.Get("pong", zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnknownGame)
	assert.ErrorContains(t, err, "term")
	assert.Equal(t, 1, built)
}

func TestRegisterReplaces(t *testing.T) {
	var built int
	gr := newTestRegistry(&built)
	gr.RegisterGame(fake("term", "Plain", true, &built))

	items := gr.MenuItems()
	require.Len(t, items, 3)
	assert.Equal(t, "Plain - a Plain", items[0].Label)
}

func TestNilAvailableMeansAlways(t *testing.T) {
	gr := NewGameRegistry()
	gr.RegisterGame(Frontend{Key: "x", Name: "X", New: func(zerolog.Logger) types.Game { return fakeGame{name: "X"} }})
	require.Len(t, gr.Available(), 1)
	_, err := gr.Get("x", zerolog.Nop())
	assert.NoError(t, err)
}
