package tetris

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

const (
	BoardWidth  = 10
	BoardHeight = 20

	// DefaultPreview is the length of the next-piece queue.
	DefaultPreview = 3
)

// State is the game loop state.
type State int

const (
	NoActivePiece State = iota
	PieceFalling
	Paused
	ToppedOut
)

var stateNames = [...]string{"no-active-piece", "piece-falling", "paused", "topped-out"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a read-only view of the game for renderers and clients.
type Snapshot struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Board      [][]int     `json:"board"`
	Active     *Preview    `json:"active,omitempty"`
	Cells      []Point     `json:"cells,omitempty"`
	Ghost      []Point     `json:"ghost,omitempty"`
	Hold       *PieceType  `json:"hold,omitempty"`
	Next       []PieceType `json:"next"`
	Score      int         `json:"score"`
	Lines      int         `json:"lines"`
	Level      int         `json:"level"`
	State      State       `json:"state"`
	LastMove   MoveType    `json:"lastMove"`
	GameOver   bool        `json:"gameOver"`
	ResetCount int         `json:"resets"`
}

// Options configures a game. Zero values select defaults.
type Options struct {
	Width, Height int
	// Rand seeds the default bag when Randomizer is nil.
	Rand       *rand.Rand
	Randomizer Randomizer
	Renderer   Renderer
	// Tuning that fails Validate is replaced by DefaultTuning.
	Tuning     *Tuning
	Preview    int
	// WaitOnTopOut keeps the game in ToppedOut until a reset key instead of
	// restarting immediately.
	WaitOnTopOut bool
	Logger       *zerolog.Logger
}

// Tetris is one game session. It is not safe for concurrent use: a single
// goroutine drives Tick and OnKey.
type Tetris struct {
	board    *Board
	bag      Randomizer
	renderer Renderer
	tuning   Tuning
	scorer   *Scorer
	log      zerolog.Logger

	preview      int
	waitOnTopOut bool

	ticks     int
	failTicks int
	active    *Piece
	lastDrop  DropKind
	hold      PieceType
	hasHold   bool
	swapped   bool
	paused    bool
	alive     bool
	resets    int
}

// NewTetris creates a new game and draws the empty board.
func NewTetris(opts Options) *Tetris {
	if opts.Width <= 0 {
		opts.Width = BoardWidth
	}
	if opts.Height <= 0 {
		opts.Height = BoardHeight
	}
	if opts.Randomizer == nil {
		rng := opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		opts.Randomizer = NewBag(rng)
	}
	if opts.Renderer == nil {
		opts.Renderer = &NopRenderer{}
	}
	if opts.Preview <= 0 {
		opts.Preview = DefaultPreview
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	tuning := DefaultTuning()
	if opts.Tuning != nil {
		if err := opts.Tuning.Validate(); err != nil {
			log.Warn().Err(err).Msg("invalid tuning, using defaults")
		} else {
			tuning = *opts.Tuning
		}
	}

	t := &Tetris{
		board:        NewBoard(opts.Width, opts.Height),
		bag:          opts.Randomizer,
		renderer:     opts.Renderer,
		tuning:       tuning,
		scorer:       NewScorer(tuning.Thresholds, tuning.BackToBackBonus),
		log:          log,
		preview:      opts.Preview,
		waitOnTopOut: opts.WaitOnTopOut,
	}
	t.Reset()
	t.resets = 0
	return t
}

// Tick advances the simulation by one frame. Gravity runs on every n-th tick,
// where n shrinks as the level grows.
func (t *Tetris) Tick() {
	if t.paused || !t.alive {
		return
	}
	t.ticks++
	if t.ticks%t.tuning.Gravity(t.scorer.Level()) != 0 {
		return
	}
	defer t.present()

	if t.active == nil {
		t.spawn(t.bag.Next())
		return
	}

	t.active.Y++
	if t.board.TryFit(t.active) {
		t.failTicks = 0
		t.drawActive()
		return
	}
	t.active.Y--
	t.failTicks++
	if t.failTicks > t.tuning.LockDelay {
		t.lock(t.lastDrop)
	}
}

// OnKey applies one input. Movement keys are ignored while paused or when no
// piece is falling.
func (t *Tetris) OnKey(k Key) {
	switch k {
	case KeyPause:
		if t.alive {
			t.paused = !t.paused
			t.log.Debug().Bool("paused", t.paused).Msg("pause toggled")
		}
		t.present()
		return
	case KeyReset:
		t.Reset()
		return
	}
	if t.paused || t.active == nil {
		return
	}

	switch k {
	case KeyLeft:
		t.shift(-1, 0)
	case KeyRight:
		t.shift(1, 0)
	case KeySoftDrop:
		if t.shift(0, 1) {
			t.lastDrop = DropSoft
		}
	case KeyHardDrop:
		t.hardDrop()
	case KeyRotateCW:
		t.rotate(Clockwise)
	case KeyRotateCCW:
		t.rotate(CounterClockwise)
	case KeyHold:
		t.holdSwap()
	default:
		t.log.Debug().Str("key", string(k)).Msg("unknown key")
		return
	}
	t.present()
}

// Reset clears the board, the pieces and every counter.
func (t *Tetris) Reset() {
	t.board.Clear()
	t.renderer.ClearBoard()
	t.scorer.Reset()

	t.active = nil
	t.hasHold = false
	t.swapped = false
	t.ticks = 0
	t.failTicks = 0
	t.lastDrop = DropGravity
	t.paused = false
	t.alive = true
	t.resets++

	t.renderer.DrawBoundaries(t.board.Width(), t.board.Height())
	t.drawNext()
	t.present()
}

// spawn places a new piece of type pt at the top centre. It reports false if
// the piece collided and the game topped out.
func (t *Tetris) spawn(pt PieceType) bool {
	p := NewPiece(pt, SpawnX(pt, t.board.Width()), 0)
	if !t.board.TryFit(p) {
		t.topOut("spawn collision")
		return false
	}
	t.active = p
	t.failTicks = 0
	t.swapped = false
	t.lastDrop = DropGravity
	t.drawActive()
	t.drawNext()
	t.log.Debug().Stringer("piece", pt).Int("x", p.X).Msg("spawned")
	return true
}

// shift moves the active piece, reverting if the new position collides.
func (t *Tetris) shift(dx, dy int) bool {
	t.active.X += dx
	t.active.Y += dy
	if !t.board.TryFit(t.active) {
		t.active.X -= dx
		t.active.Y -= dy
		return false
	}
	t.drawActive()
	return true
}

func (t *Tetris) rotate(dir Direction) {
	to := t.active.Rotation.Add(int(dir))
	if t.board.TryRotate(t.active, to) {
		t.drawActive()
	}
}

func (t *Tetris) hardDrop() {
	t.active.Y += t.dropDistance(t.active)
	t.drawActive()
	t.lock(DropHard)
}

// dropDistance is how far p can fall before it lands.
func (t *Tetris) dropDistance(p *Piece) int {
	d := 0
	for t.board.fits(p.Type, p.Rotation, p.X, p.Y+d+1) {
		d++
	}
	return d
}

// holdSwap exchanges the active piece with the held type, drawing from the
// bag when nothing is held. Only one swap is allowed per piece.
func (t *Tetris) holdSwap() {
	if t.swapped {
		return
	}
	cur := t.active
	next, had := t.hold, t.hasHold
	if !had {
		next = t.bag.Next()
	}
	t.hold, t.hasHold = cur.Type, true

	p := NewPiece(next, SpawnX(next, t.board.Width()), 0)
	p.Blocks = cur.Blocks
	if !t.board.TryFit(p) {
		t.topOut("hold collision")
		return
	}
	t.active = p
	t.failTicks = 0
	t.lastDrop = DropGravity
	t.swapped = true
	t.drawActive()
	t.drawNext()
	t.log.Debug().Stringer("held", cur.Type).Stringer("piece", next).Msg("hold swap")
}

// lock places the active piece, scores the move and clears full rows.
func (t *Tetris) lock(drop DropKind) {
	p := t.active
	t.active = nil
	t.failTicks = 0
	p.Blocks = t.renderer.DrawPiece(p.Preview(), p.Blocks, false)

	lockOut := false
	for _, c := range p.Cells() {
		if c.Y < 0 {
			lockOut = true
		}
	}

	id := t.board.AddPiece(p)
	move := Classify(t.board, p)
	cleared := t.board.ClearLines()
	points := t.scorer.Award(move, drop, cleared)
	if removed := t.board.TakeRemoved(); len(removed) > 0 {
		t.renderer.ClearLines(removed)
	}

	t.log.Debug().Stringer("piece", p.Type).Uint32("id", uint32(id)).Stringer("move", move).
		Int("cleared", cleared).Int("points", points).Int("score", t.scorer.Points()).Msg("locked")

	if lockOut {
		t.topOut("lock out")
	}
}

func (t *Tetris) topOut(reason string) {
	t.log.Info().Str("reason", reason).Int("score", t.scorer.Points()).
		Int("lines", t.scorer.Lines()).Msg("topped out")
	t.active = nil
	t.alive = false
	if !t.waitOnTopOut {
		t.Reset()
	}
}

func (t *Tetris) drawActive() {
	t.active.Blocks = t.renderer.DrawPiece(t.active.Preview(), t.active.Blocks, true)
}

func (t *Tetris) drawNext() {
	t.renderer.DrawNext(t.nextPreviews())
}

func (t *Tetris) nextPreviews() []Preview {
	types := t.bag.Peek(t.preview)
	previews := make([]Preview, len(types))
	for i, pt := range types {
		previews[i] = Preview{Type: pt, Y: i * 3}
	}
	return previews
}

func (t *Tetris) present() {
	t.renderer.Present(t.GetState())
}

// GetState returns a snapshot of the game.
func (t *Tetris) GetState() Snapshot {
	s := Snapshot{
		Width:      t.board.Width(),
		Height:     t.board.Height(),
		Board:      t.board.Snapshot(),
		Next:       t.bag.Peek(t.preview),
		Score:      t.scorer.Points(),
		Lines:      t.scorer.Lines(),
		Level:      t.scorer.Level(),
		State:      t.State(),
		LastMove:   t.scorer.LastMove(),
		GameOver:   !t.alive,
		ResetCount: t.resets,
	}
	if t.active != nil {
		pv := t.active.Preview()
		s.Active = &pv
		cells := t.active.Cells()
		s.Cells = cells[:]

		ghost := pv
		ghost.Y += t.dropDistance(t.active)
		ghostCells := ghost.Cells()
		s.Ghost = ghostCells[:]
	}
	if t.hasHold {
		h := t.hold
		s.Hold = &h
	}
	return s
}

// State reports the loop state.
func (t *Tetris) State() State {
	switch {
	case !t.alive:
		return ToppedOut
	case t.paused:
		return Paused
	case t.active == nil:
		return NoActivePiece
	default:
		return PieceFalling
	}
}

// Board exposes the playfield for inspection.
func (t *Tetris) Board() *Board { return t.board }

// Active returns a copy of the falling piece.
func (t *Tetris) Active() (Piece, bool) {
	if t.active == nil {
		return Piece{}, false
	}
	return *t.active, true
}

// Hold returns the held piece type.
func (t *Tetris) Hold() (PieceType, bool) { return t.hold, t.hasHold }

// IsGameOver reports whether the game topped out and waits for a reset.
func (t *Tetris) IsGameOver() bool { return !t.alive }

// GetScore returns the current score.
func (t *Tetris) GetScore() int { return t.scorer.Points() }

// Lines returns the number of cleared rows.
func (t *Tetris) Lines() int { return t.scorer.Lines() }

// Level returns the current level.
func (t *Tetris) Level() int { return t.scorer.Level() }

// Ticks returns the tick counter since the last reset.
func (t *Tetris) Ticks() int { return t.ticks }

// Resets counts resets since the game was created.
func (t *Tetris) Resets() int { return t.resets }
