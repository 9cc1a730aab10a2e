package term

import (
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal tracks size and capability state for the output stream a
// display is rendering to, grounded on terminal/size.rs's Terminal.
type Terminal struct {
	mu     sync.Mutex
	width  int
	height int

	supportsColor           bool
	supportsCursorMovement  bool
	supportsKeyboardInput   bool
	rawModeEnabled          bool

	events *EventManager
	fd     int
}

// New returns a Terminal defaulting to 80x24 until Detect is called, with
// capabilities probed from the environment.
func New() *Terminal {
	return &Terminal{
		width:                 80,
		height:                24,
		supportsColor:         ColorSupport(),
		supportsCursorMovement: CursorMovementSupport(),
		supportsKeyboardInput:  true,
		events:                 NewEventManager(),
		fd:                     int(os.Stdout.Fd()),
	}
}

// WithSize returns a Terminal seeded with an explicit size, useful in
// tests that don't have a real tty.
func WithSize(width, height int) *Terminal {
	t := New()
	t.width, t.height = width, height
	return t
}

// Size returns the terminal's last-known (width, height).
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// SetSize overrides the tracked size and emits a resize event if it
// actually changed.
func (t *Terminal) SetSize(width, height int) {
	t.mu.Lock()
	changed := t.width != width || t.height != height
	t.width, t.height = width, height
	t.mu.Unlock()
	if changed {
		_ = t.events.EmitEvent(Event{Kind: EventResize, Width: width, Height: height})
	}
}

// Detect queries the real terminal size via golang.org/x/term and updates
// the tracked size, emitting a resize event if it changed.
func (t *Terminal) Detect() (int, int, error) {
	width, height, err := term.GetSize(t.fd)
	if err != nil {
		width, height = t.Size()
		return width, height, err
	}
	t.SetSize(width, height)
	return width, height, nil
}

// SupportsColor reports whether ANSI color output should be emitted.
func (t *Terminal) SupportsColor() bool { return t.supportsColor }

// SupportsCursorMovement reports whether ANSI cursor-movement sequences
// are expected to work.
func (t *Terminal) SupportsCursorMovement() bool { return t.supportsCursorMovement }

// SupportsKeyboardInput reports whether the terminal accepts keyboard
// input (true unless explicitly probed otherwise).
func (t *Terminal) SupportsKeyboardInput() bool { return t.supportsKeyboardInput }

// IsRawMode reports whether EnableRawMode has successfully been called
// without a matching DisableRawMode.
func (t *Terminal) IsRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawModeEnabled
}

// EnableRawMode puts the underlying tty into raw mode, restorable via
// DisableRawMode.
func (t *Terminal) EnableRawMode() (*term.State, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.rawModeEnabled = true
	t.mu.Unlock()
	return state, nil
}

// DisableRawMode restores the tty state captured by EnableRawMode.
func (t *Terminal) DisableRawMode(state *term.State) error {
	if err := term.Restore(t.fd, state); err != nil {
		return err
	}
	t.mu.Lock()
	t.rawModeEnabled = false
	t.mu.Unlock()
	return nil
}

// DetectCapabilities re-probes color/cursor support from the environment.
func (t *Terminal) DetectCapabilities() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.supportsColor = ColorSupport()
	t.supportsCursorMovement = CursorMovementSupport()
	t.supportsKeyboardInput = true
}

// Events returns the terminal's EventManager, for registering resize/focus
// handlers.
func (t *Terminal) Events() *EventManager { return t.events }

// StartEventDetection starts the event dispatch loop.
func (t *Terminal) StartEventDetection() { t.events.StartEventLoop() }

// StopEventDetection stops the event dispatch loop.
func (t *Terminal) StopEventDetection() { t.events.StopEventLoop() }
