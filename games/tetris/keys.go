package tetris

// Key is a symbolic input accepted by OnKey.
type Key string

const (
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyHardDrop  Key = "up"
	KeySoftDrop  Key = "down"
	KeyRotateCW  Key = "rotate-cw"
	KeyRotateCCW Key = "rotate-ccw"
	KeyHold      Key = "hold"
	KeyPause     Key = "pause"
	KeyReset     Key = "reset"
)

var knownKeys = map[Key]bool{
	KeyLeft: true, KeyRight: true, KeyHardDrop: true, KeySoftDrop: true,
	KeyRotateCW: true, KeyRotateCCW: true, KeyHold: true, KeyPause: true, KeyReset: true,
}

// ParseKey validates a key name received from a client.
func ParseKey(s string) (Key, bool) {
	k := Key(s)
	return k, knownKeys[k]
}
