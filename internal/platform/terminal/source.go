// Package terminal turns tcell key events into key signals.
//
// Terminals only report key presses, never releases, and report modifiers
// as flags on the pressed key. Source expands each press into the sequence a
// physical keyboard produces (modifier downs, key down, key up, modifier ups)
// so the tracker never accumulates stale keys. A lost-focus event becomes a
// blur signal.
package terminal

import (
	"io"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/element"
	"github.com/dshills/keychord/internal/input/key"
)

// Source delivers key signals from a tcell screen.
type Source struct {
	screen tcell.Screen
	logger *slog.Logger
	other  func(tcell.Event)

	mu        sync.Mutex
	listeners map[int]input.Listener
	nextID    int
	focus     element.Element
	started   bool
	done      chan struct{}
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the source logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithEventHandler receives every non-key event (resize, mouse, paste) so
// the host can redraw. It runs on the polling goroutine.
func WithEventHandler(fn func(tcell.Event)) Option {
	return func(s *Source) {
		s.other = fn
	}
}

// New creates a source reading from screen. The screen must be initialized
// by the caller before Start.
func New(screen tcell.Screen, opts ...Option) *Source {
	s := &Source{
		screen:    screen,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners: make(map[int]input.Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen implements input.Target.
func (s *Source) Listen(l input.Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// SetFocus sets the element attached to every signal, letting the host mark
// a text prompt as focused so shortcut handling is blocked while it is open.
// Nil clears it.
func (s *Source) SetFocus(el element.Element) {
	s.mu.Lock()
	s.focus = el
	s.mu.Unlock()
}

// Start begins polling the screen on a new goroutine.
func (s *Source) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true
	s.done = make(chan struct{})
	s.screen.EnableFocus()

	go s.poll(s.done)
	return nil
}

// Stop interrupts polling and waits for the polling goroutine to exit.
func (s *Source) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.started = false
	done := s.done
	s.mu.Unlock()

	if err := s.screen.PostEvent(tcell.NewEventInterrupt(stopToken{})); err != nil {
		s.logger.Debug("could not interrupt terminal poll", "error", err)
	}
	<-done
	return nil
}

// stopToken marks the interrupt posted by Stop.
type stopToken struct{}

func (s *Source) poll(done chan struct{}) {
	defer close(done)
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			// Screen finalized.
			return
		}
		if intr, ok := ev.(*tcell.EventInterrupt); ok {
			if _, stop := intr.Data().(stopToken); stop {
				return
			}
		}
		s.Dispatch(ev)
	}
}

// Dispatch translates a single tcell event and delivers the resulting
// signals. Hosts running their own poll loop call it directly.
func (s *Source) Dispatch(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		s.dispatchKey(e)
	case *tcell.EventFocus:
		if !e.Focused {
			s.each(func(l input.Listener) { l.HandleBlur() })
		}
	default:
		if s.other != nil {
			s.other(ev)
		}
	}
}

func (s *Source) dispatchKey(e *tcell.EventKey) {
	id, mods, ok := convertKey(e)
	if !ok {
		s.logger.Debug("ignoring unmapped terminal key", "key", e.Name())
		return
	}

	s.mu.Lock()
	focus := s.focus
	s.mu.Unlock()

	downs, ups := key.Press(id, mods)
	for _, down := range downs {
		down.Timestamp = e.When()
		down.WithTarget(focus)
		s.each(func(l input.Listener) { l.HandleKeyDown(down) })
	}
	for _, up := range ups {
		up.Timestamp = e.When()
		up.WithTarget(focus)
		s.each(func(l input.Listener) { l.HandleKeyUp(up) })
	}
}

// each calls fn for every listener outside the lock.
func (s *Source) each(fn func(input.Listener)) {
	s.mu.Lock()
	ls := make([]input.Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.Unlock()

	for _, l := range ls {
		fn(l)
	}
}

var _ input.Target = (*Source)(nil)
