package tetris

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seqRandomizer replays a fixed sequence of piece types.
type seqRandomizer struct {
	seq []PieceType
	pos int
}

func (s *seqRandomizer) Next() PieceType {
	t := s.seq[s.pos%len(s.seq)]
	s.pos++
	return t
}

func (s *seqRandomizer) Peek(n int) []PieceType {
	out := make([]PieceType, n)
	for i := range out {
		out[i] = s.seq[(s.pos+i)%len(s.seq)]
	}
	return out
}

func (s *seqRandomizer) Reset() { s.pos = 0 }

// recordingRenderer tracks live handles so tests can check that every block
// is released exactly once.
type recordingRenderer struct {
	NopRenderer
	live     map[BlockHandle]bool
	released []BlockHandle
	unknown  []BlockHandle
	presents int
	last     Snapshot
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{live: make(map[BlockHandle]bool)}
}

func (r *recordingRenderer) DrawPiece(p Preview, blocks [4]BlockHandle, active bool) [4]BlockHandle {
	blocks = r.NopRenderer.DrawPiece(p, blocks, active)
	for _, h := range blocks {
		r.live[h] = true
	}
	return blocks
}

func (r *recordingRenderer) ClearLines(removed []BlockHandle) {
	for _, h := range removed {
		if !r.live[h] {
			r.unknown = append(r.unknown, h)
		}
		delete(r.live, h)
		r.released = append(r.released, h)
	}
}

func (r *recordingRenderer) ClearBoard() {
	r.live = make(map[BlockHandle]bool)
}

func (r *recordingRenderer) Present(s Snapshot) {
	r.presents++
	r.last = s
}

func fastTuning(lockDelay int) *Tuning {
	tn := DefaultTuning()
	tn.GravityTicks = 1
	tn.LockDelay = lockDelay
	return &tn
}

func newTestGame(opts Options, seq ...PieceType) (*Tetris, *recordingRenderer) {
	r := newRecordingRenderer()
	opts.Renderer = r
	opts.Randomizer = &seqRandomizer{seq: seq}
	if opts.Tuning == nil {
		opts.Tuning = fastTuning(0)
	}
	return NewTetris(opts), r
}

func TestNewTetrisStartsEmpty(t *testing.T) {
	g, r := newTestGame(Options{}, T)
	assert.Equal(t, NoActivePiece, g.State())
	assert.True(t, g.Board().Empty())
	assert.Zero(t, g.Resets())
	assert.Zero(t, g.GetScore())
	assert.Equal(t, 1, r.presents)
	assert.Len(t, r.last.Next, DefaultPreview)
}

func TestHardDropLandsOnFloor(t *testing.T) {
	g, r := newTestGame(Options{}, I)

	g.Tick()
	p, ok := g.Active()
	require.True(t, ok)
	assert.Equal(t, Piece{Type: I, X: 3, Y: 0, Blocks: p.Blocks}, p)
	assert.Equal(t, PieceFalling, g.State())

	g.OnKey(KeyHardDrop)
	_, ok = g.Active()
	assert.False(t, ok)
	assert.Equal(t, NoActivePiece, g.State())
	for x := 0; x < BoardWidth; x++ {
		pt, filled := g.Board().Cell(x, BoardHeight-1)
		if x >= 3 && x <= 6 {
			assert.True(t, filled, "x=%d", x)
			assert.Equal(t, I, pt)
		} else {
			assert.False(t, filled, "x=%d", x)
		}
	}
	assert.Zero(t, g.GetScore())
	assert.Equal(t, MoveNone, r.last.LastMove)
}

func TestGravityAndLockDelay(t *testing.T) {
	g, _ := newTestGame(Options{Tuning: fastTuning(2)}, O)

	g.Tick() // spawn
	for i := 0; i < BoardHeight-2; i++ {
		g.Tick()
	}
	p, ok := g.Active()
	require.True(t, ok)
	assert.Equal(t, BoardHeight-2, p.Y)

	// Two grounded ticks are tolerated, the third locks.
	g.Tick()
	g.Tick()
	_, ok = g.Active()
	require.True(t, ok)
	g.Tick()
	_, ok = g.Active()
	assert.False(t, ok)
	assert.True(t, g.Board().IsOccupied(4, BoardHeight-1))
}

func TestSlowGravity(t *testing.T) {
	tn := DefaultTuning()
	g, _ := newTestGame(Options{Tuning: &tn}, T)

	for i := 0; i < tn.GravityTicks-1; i++ {
		g.Tick()
	}
	assert.Equal(t, NoActivePiece, g.State())
	g.Tick()
	assert.Equal(t, PieceFalling, g.State())
	assert.Equal(t, tn.GravityTicks, g.Ticks())
}

func TestSoftDrop(t *testing.T) {
	g, _ := newTestGame(Options{}, T)
	g.Tick()
	g.OnKey(KeySoftDrop)
	p, _ := g.Active()
	assert.Equal(t, 1, p.Y)
}

func TestHoldOncePerPiece(t *testing.T) {
	g, _ := newTestGame(Options{}, T, I, O, S)
	g.Tick()

	g.OnKey(KeyHold)
	p, _ := g.Active()
	assert.Equal(t, I, p.Type)
	held, ok := g.Hold()
	require.True(t, ok)
	assert.Equal(t, T, held)

	g.OnKey(KeyHold)
	p, _ = g.Active()
	assert.Equal(t, I, p.Type, "second hold on the same piece is ignored")

	g.OnKey(KeyHardDrop)
	g.Tick()
	p, _ = g.Active()
	assert.Equal(t, O, p.Type)

	g.OnKey(KeyHold)
	p, _ = g.Active()
	assert.Equal(t, T, p.Type)
	held, _ = g.Hold()
	assert.Equal(t, O, held)
}

func TestHoldKeepsHandles(t *testing.T) {
	g, r := newTestGame(Options{}, T, I)
	g.Tick()
	before, _ := g.Active()
	g.OnKey(KeyHold)
	after, _ := g.Active()
	assert.Equal(t, before.Blocks, after.Blocks)
	assert.Len(t, r.live, 4)
}

func TestShiftRevertsAtWall(t *testing.T) {
	g, _ := newTestGame(Options{}, T)
	g.Tick()
	for i := 0; i < 5; i++ {
		g.OnKey(KeyLeft)
	}
	p, _ := g.Active()
	assert.Equal(t, 0, p.X)

	for i := 0; i < 12; i++ {
		g.OnKey(KeyRight)
	}
	p, _ = g.Active()
	assert.Equal(t, BoardWidth-3, p.X)
}

func TestRotateKeys(t *testing.T) {
	g, _ := newTestGame(Options{}, T)
	g.Tick()
	g.OnKey(KeySoftDrop)
	g.OnKey(KeyRotateCW)
	p, _ := g.Active()
	assert.Equal(t, Rotation(1), p.Rotation)
	g.OnKey(KeyRotateCCW)
	g.OnKey(KeyRotateCCW)
	p, _ = g.Active()
	assert.Equal(t, Rotation(3), p.Rotation)
}

func TestPauseFreezesGame(t *testing.T) {
	g, _ := newTestGame(Options{}, T)
	g.Tick()
	g.OnKey(KeyPause)
	assert.Equal(t, Paused, g.State())

	before, _ := g.Active()
	ticks := g.Ticks()
	g.Tick()
	g.OnKey(KeyLeft)
	g.OnKey(KeyHardDrop)
	after, _ := g.Active()
	assert.Equal(t, before, after)
	assert.Equal(t, ticks, g.Ticks())

	g.OnKey(KeyPause)
	assert.Equal(t, PieceFalling, g.State())
	g.Tick()
	after, _ = g.Active()
	assert.Equal(t, before.Y+1, after.Y)
}

// stackTwoOs fills a 4x4 board with two stacked O pieces in the spawn columns.
func stackTwoOs(g *Tetris) {
	g.Tick()
	g.OnKey(KeyHardDrop)
	g.Tick()
	g.OnKey(KeyHardDrop)
}

func TestTopOutResets(t *testing.T) {
	g, r := newTestGame(Options{Width: 4, Height: 4}, O)
	stackTwoOs(g)
	require.Equal(t, 2, g.Board().Pieces())

	g.Tick()
	assert.Equal(t, 1, g.Resets())
	assert.True(t, g.Board().Empty())
	assert.False(t, g.IsGameOver())
	assert.Equal(t, NoActivePiece, g.State())
	assert.Empty(t, r.live)

	g.Tick()
	assert.Equal(t, PieceFalling, g.State())
}

func TestTopOutWaitsForReset(t *testing.T) {
	g, _ := newTestGame(Options{Width: 4, Height: 4, WaitOnTopOut: true}, O)
	stackTwoOs(g)

	g.Tick()
	assert.True(t, g.IsGameOver())
	assert.Equal(t, ToppedOut, g.State())
	assert.Zero(t, g.Resets())

	g.Tick()
	g.OnKey(KeyPause)
	assert.Equal(t, ToppedOut, g.State())

	g.OnKey(KeyReset)
	assert.False(t, g.IsGameOver())
	assert.Equal(t, 1, g.Resets())
	assert.True(t, g.Board().Empty())
}

func TestPerfectClearHardDrop(t *testing.T) {
	g, r := newTestGame(Options{Width: 4, Height: 4}, I)
	g.Tick()
	p, _ := g.Active()
	assert.Equal(t, 0, p.X)

	g.OnKey(KeyHardDrop)
	assert.Equal(t, 1600, g.GetScore())
	assert.Equal(t, 1, g.Lines())
	assert.Equal(t, 1, g.Level())
	assert.True(t, g.Board().Empty())
	assert.Zero(t, g.Board().Pieces())

	assert.ElementsMatch(t, p.Blocks[:], r.released)
	assert.Empty(t, r.unknown)
	assert.Empty(t, r.live)
	assert.Equal(t, MovePerfectClear, r.last.LastMove)
}

func TestLineClearReleasesHandlesOnce(t *testing.T) {
	// Two I pieces side by side fill the bottom row of an 8-wide board.
	g, r := newTestGame(Options{Width: 8, Height: 6}, I, I, O)
	g.Tick()
	for i := 0; i < 4; i++ {
		g.OnKey(KeyLeft)
	}
	g.OnKey(KeyHardDrop)
	g.Tick()
	for i := 0; i < 4; i++ {
		g.OnKey(KeyRight)
	}
	g.OnKey(KeyHardDrop)

	assert.Equal(t, 1, g.Lines())
	assert.Len(t, r.released, 8)
	assert.Empty(t, r.unknown)
	assert.Equal(t, 1600, g.GetScore())
	assert.True(t, g.Board().Empty())
}

func TestSnapshotJSON(t *testing.T) {
	g, _ := newTestGame(Options{}, T, S, Z, L)
	g.Tick()

	data, err := json.Marshal(g.GetState())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "piece-falling", got["state"])
	assert.Equal(t, "none", got["lastMove"])
	assert.Equal(t, []any{"S", "Z", "L"}, got["next"])
	assert.Len(t, got["cells"], 4)
	assert.Len(t, got["ghost"], 4)
	assert.NotContains(t, got, "hold")

	active, ok := got["active"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "T", active["type"])
}

func TestGhostSitsOnStack(t *testing.T) {
	g, _ := newTestGame(Options{}, O)
	g.Tick()
	s := g.GetState()
	for _, c := range s.Ghost {
		assert.GreaterOrEqual(t, c.Y, BoardHeight-2)
	}
}

func TestInvalidTuningFallsBack(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)
	g, _ := newTestGame(Options{Tuning: &Tuning{}, Logger: &log}, T)
	assert.Contains(t, logs.String(), "invalid tuning")

	def := DefaultTuning()
	assert.NotPanics(t, func() {
		for i := 0; i < def.GravityTicks; i++ {
			g.Tick()
		}
	})
	assert.Equal(t, PieceFalling, g.State())
}

// kickAboveField fills rows 2 and 3 of a 6x4 board except the last column,
// spawns a T and rotates it. The in-place rotation and the first kick hit the
// stack, so the second kick lifts the stem to row -1.
func kickAboveField(t *testing.T, g *Tetris) Piece {
	t.Helper()
	h := BlockHandle(1000)
	for y := 2; y < 4; y++ {
		for x := 0; x < 5; x++ {
			h++
			fillCell(g.board, x, y, h)
		}
	}
	g.Tick()
	g.OnKey(KeyRotateCW)

	p, ok := g.Active()
	require.True(t, ok)
	require.Equal(t, Piece{Type: T, Rotation: 1, X: 0, Y: -1, Blocks: p.Blocks}, p)
	return p
}

func TestLockOutWaitsForReset(t *testing.T) {
	g, r := newTestGame(Options{Width: 6, Height: 4, WaitOnTopOut: true}, T)
	p := kickAboveField(t, g)

	g.OnKey(KeyHardDrop)
	assert.Equal(t, ToppedOut, g.State())
	assert.True(t, g.IsGameOver())
	assert.Zero(t, g.Resets())
	// Only the cell above the field is released; the rest stays on the board.
	assert.Equal(t, []BlockHandle{p.Blocks[0]}, r.released)
	assert.Empty(t, r.unknown)
	assert.Len(t, r.live, 3)

	g.OnKey(KeyReset)
	assert.Equal(t, 1, g.Resets())
	assert.True(t, g.Board().Empty())
	assert.Empty(t, r.live)
	assert.Len(t, r.released, 1)
}

func TestLockOutResets(t *testing.T) {
	g, r := newTestGame(Options{Width: 6, Height: 4}, T)
	p := kickAboveField(t, g)

	g.OnKey(KeyHardDrop)
	assert.False(t, g.IsGameOver())
	assert.Equal(t, NoActivePiece, g.State())
	assert.Equal(t, 1, g.Resets())
	assert.True(t, g.Board().Empty())
	assert.Zero(t, g.Board().Pieces())
	assert.Equal(t, []BlockHandle{p.Blocks[0]}, r.released)
	assert.Empty(t, r.unknown)
	assert.Empty(t, r.live)
}

// blockHoldSpawn spawns a T on a 6x4 board with cell (4, 0) taken, which the
// T clears but an I spawned in its place does not.
func blockHoldSpawn(t *testing.T, g *Tetris) {
	t.Helper()
	fillCell(g.board, 4, 0, 1000)
	g.Tick()
	p, ok := g.Active()
	require.True(t, ok)
	require.Equal(t, T, p.Type)
}

func TestHoldCollisionWaitsForReset(t *testing.T) {
	g, r := newTestGame(Options{Width: 6, Height: 4, WaitOnTopOut: true}, T, I)
	blockHoldSpawn(t, g)

	g.OnKey(KeyHold)
	assert.Equal(t, ToppedOut, g.State())
	assert.True(t, g.IsGameOver())
	_, ok := g.Active()
	assert.False(t, ok)
	assert.Empty(t, r.released, "the swapped piece never reached the board")
	assert.Len(t, r.live, 4)

	g.OnKey(KeyReset)
	assert.Equal(t, 1, g.Resets())
	assert.True(t, g.Board().Empty())
	assert.Empty(t, r.live)
	assert.Empty(t, r.released)
	assert.Empty(t, r.unknown)
}

func TestHoldCollisionResets(t *testing.T) {
	g, r := newTestGame(Options{Width: 6, Height: 4}, T, I)
	blockHoldSpawn(t, g)

	g.OnKey(KeyHold)
	assert.False(t, g.IsGameOver())
	assert.Equal(t, NoActivePiece, g.State())
	assert.Equal(t, 1, g.Resets())
	assert.True(t, g.Board().Empty())
	_, held := g.Hold()
	assert.False(t, held)
	assert.Empty(t, r.live)
	assert.Empty(t, r.released)
	assert.Empty(t, r.unknown)
}
