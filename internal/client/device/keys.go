package device

import (
	"sync"
	"time"
	"unicode"
)

// DefaultRepeatWindow is how close two raw presses of one key must be to
// count as a held key.
const DefaultRepeatWindow = 500 * time.Millisecond

var keyMap = map[rune]Direction{
	'w': Forward,
	'a': Left,
	's': Backward,
	'd': Right,
}

// KeyEvent is one key press. Repeat is set by sources that know the key is
// held down.
type KeyEvent struct {
	Key    rune
	Repeat bool
}

// Press is the result of a handled key.
type Press struct {
	Pressed Direction
	Active  Direction
}

// KeyHandler mirrors the drive controls on the w, a, s and d keys.
type KeyHandler struct {
	ctrl   *Controller
	gate   func() bool
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	lastKey rune
	lastAt  time.Time
}

// NewKeyHandler handles keys only while gate returns true.
func NewKeyHandler(ctrl *Controller, gate func() bool, window time.Duration) *KeyHandler {
	if window <= 0 {
		window = DefaultRepeatWindow
	}
	return &KeyHandler{ctrl: ctrl, gate: gate, window: window, now: time.Now}
}

// Handle drives for a mapped key. Repeats, unmapped keys and keys while
// the gate is closed are ignored.
func (h *KeyHandler) Handle(ev KeyEvent) (Press, bool) {
	if ev.Repeat || !h.gate() {
		return Press{}, false
	}
	d, ok := keyMap[unicode.ToLower(ev.Key)]
	if !ok {
		return Press{}, false
	}
	return Press{Pressed: d, Active: h.ctrl.Drive(d)}, true
}

// HandleRaw is Handle for terminals that report a held key as a stream of
// presses. A press of the same key within the repeat window of the
// previous one is a repeat; every repeat extends the window.
func (h *KeyHandler) HandleRaw(key rune) (Press, bool) {
	key = unicode.ToLower(key)
	now := h.now()

	h.mu.Lock()
	repeat := key == h.lastKey && now.Sub(h.lastAt) < h.window
	h.lastKey, h.lastAt = key, now
	h.mu.Unlock()

	return h.Handle(KeyEvent{Key: key, Repeat: repeat})
}
