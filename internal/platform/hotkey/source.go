// Package hotkey delivers key signals from system-wide hotkeys.
//
// The operating system only reports registered chords, as a press and a
// release of the whole chord. Source replays each press as modifier downs
// followed by the key down, and each release as the key up followed by the
// modifier ups, so a pipeline listening to a Source sees the same signal
// shape a keyboard produces.
//
// On macOS hotkeys must be registered from the main thread; wrap the program
// body in RunOnMainThread.
package hotkey

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// grab is one registered system hotkey.
type grab struct {
	chord  Chord
	hk     *hotkey.Hotkey
	cancel context.CancelFunc
	done   chan struct{}
}

// Source delivers key signals for a set of registered chords.
type Source struct {
	logger *slog.Logger

	mu        sync.Mutex
	listeners map[int]input.Listener
	nextID    int
	grabs     map[string]*grab
	closed    bool
}

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Source with no registered chords.
func New(opts ...Option) *Source {
	s := &Source{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		listeners: make(map[int]input.Listener),
		grabs:     make(map[string]*grab),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen subscribes l to the source's signals.
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

// Register grabs a chord system-wide. Registering a chord twice is a no-op.
func (s *Source) Register(spec string) (Chord, error) {
	chord, err := ParseChord(spec)
	if err != nil {
		return Chord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Chord{}, ErrClosed
	}
	name := chord.String()
	if _, ok := s.grabs[name]; ok {
		return chord, nil
	}

	hk := hotkey.New(systemModifiers(chord.Modifiers), chord.hk)
	if err := hk.Register(); err != nil {
		return Chord{}, fmt.Errorf("registering %s: %w", name, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &grab{chord: chord, hk: hk, cancel: cancel, done: make(chan struct{})}
	s.grabs[name] = g
	go s.listen(ctx, g)

	s.logger.Debug("hotkey registered", "chord", name)
	return chord, nil
}

// Unregister releases a chord previously registered.
func (s *Source) Unregister(spec string) error {
	chord, err := ParseChord(spec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	g, ok := s.grabs[chord.String()]
	delete(s.grabs, chord.String())
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.release(g)
}

// Chords returns the registered chords in pattern syntax.
func (s *Source) Chords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.grabs))
	for name := range s.grabs {
		out = append(out, name)
	}
	return out
}

// Close releases every chord. Further registrations fail with ErrClosed.
func (s *Source) Close() error {
	s.mu.Lock()
	s.closed = true
	grabs := s.grabs
	s.grabs = make(map[string]*grab)
	s.mu.Unlock()

	var firstErr error
	for _, g := range grabs {
		if err := s.release(g); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Source) release(g *grab) error {
	g.cancel()
	<-g.done
	if err := g.hk.Unregister(); err != nil {
		return fmt.Errorf("unregistering %s: %w", g.chord, err)
	}
	return nil
}

func (s *Source) listen(ctx context.Context, g *grab) {
	defer close(g.done)
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-g.hk.Keydown():
			if !ok {
				return
			}
			s.Press(g.chord)
		case _, ok := <-g.hk.Keyup():
			if !ok {
				return
			}
			s.Release(g.chord)
		}
	}
}

// Press delivers the key-down half of a chord to every listener.
func (s *Source) Press(c Chord) {
	downs, _ := key.Press(c.Key, c.Modifiers)
	for _, ev := range downs {
		s.each(func(l input.Listener) { l.HandleKeyDown(ev) })
	}
}

// Release delivers the key-up half of a chord to every listener.
func (s *Source) Release(c Chord) {
	_, ups := key.Press(c.Key, c.Modifiers)
	for _, ev := range ups {
		s.each(func(l input.Listener) { l.HandleKeyUp(ev) })
	}
}

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

// RunOnMainThread runs fn with the main thread reserved for hotkey
// registration, as macOS requires. It returns when fn does.
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

var _ input.Target = (*Source)(nil)
