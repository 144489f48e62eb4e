package games

import (
	"errors"
	"fmt"
	"sort"

	"github.com/isaacjstriker/notris/internal/types"
	"github.com/isaacjstriker/notris/ui"
	"github.com/rs/zerolog"
)

var (
	ErrUnknownGame = errors.New("unknown frontend")
	ErrUnavailable = errors.New("frontend is not available here")
)

// Factory builds a frontend that logs to log.
type Factory func(log zerolog.Logger) types.Game

// Frontend describes a launchable frontend without building it.
type Frontend struct {
	Key         string
	Name        string
	Description string
	// Available reports whether the frontend can run here. Nil means always.
	Available func() bool
	New       Factory
}

func (f Frontend) available() bool {
	return f.Available == nil || f.Available()
}

// GameRegistry manages the frontends the launcher can start
type GameRegistry struct {
	order     []string
	frontends map[string]Frontend
}

// NewGameRegistry creates an empty registry
func NewGameRegistry() *GameRegistry {
	return &GameRegistry{frontends: make(map[string]Frontend)}
}

// RegisterGame adds a frontend. Registering a key twice replaces the entry
// and keeps its menu position.
func (gr *GameRegistry) RegisterGame(f Frontend) {
	if _, ok := gr.frontends[f.Key]; !ok {
		gr.order = append(gr.order, f.Key)
	}
	gr.frontends[f.Key] = f
}

// Available returns the frontends that can run here, in registration order.
func (gr *GameRegistry) Available() []Frontend {
	out := make([]Frontend, 0, len(gr.order))
	for _, key := range gr.order {
		if f := gr.frontends[key]; f.available() {
			out = append(out, f)
		}
	}
	return out
}

// Get builds the frontend registered under key.
func (gr *GameRegistry) Get(key string, log zerolog.Logger) (types.Game, error) {
	f, ok := gr.frontends[key]
	if !ok {
		return nil, fmt.Errorf("%w %q, choose one of %v", ErrUnknownGame, key, gr.Keys())
	}
	if !f.available() {
		return nil, fmt.Errorf("%s: %w", f.Name, ErrUnavailable)
	}
	return f.New(log), nil
}

// Keys returns the registered keys, sorted.
func (gr *GameRegistry) Keys() []string {
	keys := make([]string, len(gr.order))
	copy(keys, gr.order)
	sort.Strings(keys)
	return keys
}

// MenuItems lists the available frontends followed by an exit entry.
func (gr *GameRegistry) MenuItems() []ui.MenuItem {
	available := gr.Available()
	items := make([]ui.MenuItem, 0, len(available)+1)
	for _, f := range available {
		items = append(items, ui.MenuItem{Label: f.Name + " - " + f.Description, Value: f.Key})
	}
	return append(items, ui.MenuItem{Label: "Exit", Value: "exit"})
}
