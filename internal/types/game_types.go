package types

import "context"

// GameResult is the summary of one play session.
type GameResult struct {
	GameName string         `json:"game_name"`
	Score    int            `json:"score"`
	Lines    int            `json:"lines"`
	Level    int            `json:"level"`
	Resets   int            `json:"resets"`
	Duration float64        `json:"duration"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Game is a playable frontend: a terminal renderer, the tcell screen or the
// browser host.
type Game interface {
	// GetName returns the display name shown in the menu
	GetName() string

	// GetDescription returns a brief description
	GetDescription() string

	// Play runs until the player quits or ctx ends and returns the result
	Play(ctx context.Context) (*GameResult, error)

	// IsAvailable checks if the frontend can run here
	IsAvailable() bool
}
