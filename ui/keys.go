package ui

import (
	"unicode"

	"github.com/eiannone/keyboard"
	"github.com/gdamore/tcell/v2"
	"github.com/isaacjstriker/notris/games/tetris"
)

// Controls is the help line shown under the board.
const Controls = "←/→ move  ↑/space drop  ↓ soft  z/x rotate  c hold  p pause  r reset  q quit"

func runeKey(ch rune) (tetris.Key, bool) {
	switch unicode.ToLower(ch) {
	case 'a':
		return tetris.KeyLeft, true
	case 'd':
		return tetris.KeyRight, true
	case 'w', ' ':
		return tetris.KeyHardDrop, true
	case 's':
		return tetris.KeySoftDrop, true
	case 'x', 'e':
		return tetris.KeyRotateCW, true
	case 'z':
		return tetris.KeyRotateCCW, true
	case 'c':
		return tetris.KeyHold, true
	case 'p':
		return tetris.KeyPause, true
	case 'r':
		return tetris.KeyReset, true
	}
	return "", false
}

// keyboardKey maps a raw keyboard event to a game key.
func keyboardKey(ch rune, key keyboard.Key) (tetris.Key, bool) {
	switch key {
	case keyboard.KeyArrowLeft:
		return tetris.KeyLeft, true
	case keyboard.KeyArrowRight:
		return tetris.KeyRight, true
	case keyboard.KeyArrowUp, keyboard.KeySpace:
		return tetris.KeyHardDrop, true
	case keyboard.KeyArrowDown:
		return tetris.KeySoftDrop, true
	}
	return runeKey(ch)
}

func keyboardQuit(ch rune, key keyboard.Key) bool {
	return ch == 'q' || ch == 'Q' || key == keyboard.KeyEsc || key == keyboard.KeyCtrlC
}

// tcellKey maps a tcell key event to a game key.
func tcellKey(ev *tcell.EventKey) (tetris.Key, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return tetris.KeyLeft, true
	case tcell.KeyRight:
		return tetris.KeyRight, true
	case tcell.KeyUp:
		return tetris.KeyHardDrop, true
	case tcell.KeyDown:
		return tetris.KeySoftDrop, true
	case tcell.KeyRune:
		return runeKey(ev.Rune())
	}
	return "", false
}

func tcellQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}
