package tetris

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// Tuning holds gameplay constants that may be overridden by a Lua script.
type Tuning struct {
	GravityTicks    int
	MinGravityTicks int
	LockDelay       int
	BackToBackBonus float64
	// Thresholds[i] is the score needed to reach level i.
	Thresholds []int
}

const defaultMaxLevel = 20

// DefaultTuning returns the built-in constants.
func DefaultTuning() Tuning {
	t := Tuning{
		GravityTicks:    10,
		MinGravityTicks: 1,
		LockDelay:       3,
		BackToBackBonus: 0.5,
		Thresholds:      make([]int, defaultMaxLevel+1),
	}
	for level := range t.Thresholds {
		t.Thresholds[level] = LevelThreshold(level)
	}
	return t
}

// Gravity returns how many ticks pass between gravity steps at a level.
func (t Tuning) Gravity(level int) int {
	g := t.GravityTicks - level
	if g < t.MinGravityTicks {
		g = t.MinGravityTicks
	}
	if g < 1 {
		return 1
	}
	return g
}

// Validate checks that the constants can drive a game.
func (t Tuning) Validate() error {
	if t.MinGravityTicks < 1 || t.GravityTicks < t.MinGravityTicks {
		return fmt.Errorf("gravity ticks %d (min %d) out of range", t.GravityTicks, t.MinGravityTicks)
	}
	if t.LockDelay < 0 {
		return fmt.Errorf("lock delay %d must not be negative", t.LockDelay)
	}
	if t.BackToBackBonus < 0 {
		return fmt.Errorf("back-to-back bonus %v must not be negative", t.BackToBackBonus)
	}
	for i := 1; i < len(t.Thresholds); i++ {
		if t.Thresholds[i] < t.Thresholds[i-1] {
			return fmt.Errorf("level threshold %d (%d) below level %d (%d)",
				i, t.Thresholds[i], i-1, t.Thresholds[i-1])
		}
	}
	return nil
}

// LoadTuning runs the tuning script at path. A missing script yields the
// defaults.
func LoadTuning(path string, log zerolog.Logger) (Tuning, error) {
	if path == "" {
		return DefaultTuning(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("tuning script not found, using defaults")
		return DefaultTuning(), nil
	}

	L := lua.NewState()
	defer L.Close()
	if err := L.DoFile(path); err != nil {
		return Tuning{}, fmt.Errorf("load tuning %s: %w", path, err)
	}
	t, err := readTuning(L)
	if err != nil {
		return Tuning{}, fmt.Errorf("load tuning %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("gravity_ticks", t.GravityTicks).
		Int("lock_delay", t.LockDelay).Int("levels", len(t.Thresholds)).Msg("tuning loaded")
	return t, nil
}

// ParseTuning runs a tuning script held in memory.
func ParseTuning(src string) (Tuning, error) {
	L := lua.NewState()
	defer L.Close()
	if err := L.DoString(src); err != nil {
		return Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}
	return readTuning(L)
}

// readTuning reads the table the script returned, filling gaps with defaults.
func readTuning(L *lua.LState) (Tuning, error) {
	def := DefaultTuning()
	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return Tuning{}, errors.New("tuning script must return a table")
	}

	t := Tuning{
		GravityTicks:    getLuaInt(tbl, "gravity_ticks", def.GravityTicks),
		MinGravityTicks: getLuaInt(tbl, "min_gravity_ticks", def.MinGravityTicks),
		LockDelay:       getLuaInt(tbl, "lock_delay", def.LockDelay),
		BackToBackBonus: getLuaFloat(tbl, "back_to_back_bonus", def.BackToBackBonus),
	}
	maxLevel := getLuaInt(tbl, "max_level", defaultMaxLevel)
	if maxLevel < 0 {
		return Tuning{}, fmt.Errorf("max_level %d must not be negative", maxLevel)
	}

	t.Thresholds = make([]int, maxLevel+1)
	fn, isFn := tbl.RawGetString("level_threshold").(*lua.LFunction)
	for level := range t.Thresholds {
		if !isFn {
			t.Thresholds[level] = LevelThreshold(level)
			continue
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LNumber(level)); err != nil {
			return Tuning{}, fmt.Errorf("level_threshold(%d): %w", level, err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		num, ok := ret.(lua.LNumber)
		if !ok {
			return Tuning{}, fmt.Errorf("level_threshold(%d) returned %s, want number", level, ret.Type())
		}
		t.Thresholds[level] = int(num)
	}

	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

func getLuaInt(tbl *lua.LTable, key string, fallback int) int {
	if num, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return int(num)
	}
	return fallback
}

func getLuaFloat(tbl *lua.LTable, key string, fallback float64) float64 {
	if num, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(num)
	}
	return fallback
}
