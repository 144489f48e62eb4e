package tetris

import (
	"context"
	"time"
)

// Run drives g from the calling goroutine: one Tick per value on ticks and
// one OnKey per value on input. It returns nil when input is closed and the
// context error when ctx ends.
func Run(ctx context.Context, g *Tetris, ticks <-chan time.Time, input <-chan Key) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k, ok := <-input:
			if !ok {
				return nil
			}
			g.OnKey(k)
		case <-ticks:
			g.Tick()
		}
	}
}
