package term

import (
	"context"
	"sync"

	"github.com/flowterm/progress/progresserr"
)

// Event is a terminal occurrence an EventManager can dispatch to
// registered handlers, grounded on terminal/event.rs's TerminalEvent
// (trimmed to the variants this display engine actually reacts to — key
// and mouse capture belong to an interactive input crate, not a progress
// renderer, so those arms are not carried over).
type Event struct {
	Kind   EventKind
	Width  int
	Height int
	Code   string
}

// EventKind discriminates an Event's payload.
type EventKind int

const (
	EventResize EventKind = iota
	EventFocusLost
	EventFocusGained
	EventControlCode
)

// Handler reacts to a dispatched Event. A returned error is discarded: it
// is not reported anywhere and does not stop dispatch to the remaining
// handlers.
type Handler func(Event) error

// EventManager fans a channel of Events out to registered handlers on a
// single dispatch goroutine, grounded on terminal/event.rs's EventManager.
type EventManager struct {
	mu       sync.RWMutex
	handlers []Handler

	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
}

// NewEventManager returns an EventManager with a buffered event queue.
func NewEventManager() *EventManager {
	return &EventManager{events: make(chan Event, 64)}
}

// RegisterHandler appends a handler invoked for every emitted event.
func (m *EventManager) RegisterHandler(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

// EmitEvent enqueues an event for dispatch without blocking; if the
// internal buffer is full the event is dropped and an error is returned.
func (m *EventManager) EmitEvent(e Event) error {
	select {
	case m.events <- e:
		return nil
	default:
		return progresserr.NewDisplayOperation("emit_event", "term.EventManager", errFull)
	}
}

var errFull = fullError{}

type fullError struct{}

func (fullError) Error() string { return "event queue is full" }

// StartEventLoop begins dispatching queued events to registered handlers
// on a background goroutine. Calling it twice without an intervening
// StopEventLoop is a no-op.
func (m *EventManager) StartEventLoop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.dispatchLoop(ctx)
}

func (m *EventManager) dispatchLoop(ctx context.Context) {
	defer close(m.done)
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-m.events:
			m.mu.RLock()
			handlers := append([]Handler(nil), m.handlers...)
			m.mu.RUnlock()
			for _, h := range handlers {
				_ = h(e)
			}
		}
	}
}

// StopEventLoop stops the dispatch goroutine and waits for it to exit.
func (m *EventManager) StopEventLoop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
