package input

import (
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keychord/internal/event/dispatch"
	"github.com/dshills/keychord/internal/event/loop"
	"github.com/dshills/keychord/internal/input/block"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
	"github.com/dshills/keychord/internal/input/tracker"
)

// Listener receives key signals from a Target.
type Listener interface {
	HandleKeyDown(ev *key.Event)
	HandleKeyUp(ev *key.Event)
	HandleBlur()
}

// Target is a surface that delivers key signals.
type Target interface {
	// Listen subscribes l and returns a function that unsubscribes it.
	Listen(l Listener) (unlisten func())
}

// Scheduler runs signal processing one task at a time.
// loop.Loop and loop.Inline implement it.
type Scheduler interface {
	// Post queues a task.
	Post(fn func()) error

	// Defer queues fn to run after the current task, before the next one.
	Defer(fn func())
}

// Pipeline tracks held keys and dispatches registered shortcuts.
type Pipeline struct {
	target   Target
	sched    Scheduler
	logger   *slog.Logger
	registry *keymap.Registry
	tracker  *tracker.Tracker
	blocker  *block.Blocker
	executor *dispatch.Executor
	stats    *Stats

	onError dispatch.ErrorHandler
	onPanic dispatch.PanicHandler

	blockElements    []string
	blockAttributes  []string
	customElements   bool
	customAttributes bool

	mu        sync.Mutex
	listening bool
	unlisten  func()
}

// New creates a pipeline for target. A nil target is allowed for hosts that
// deliver signals by calling the Handle methods directly.
func New(target Target, opts ...Option) *Pipeline {
	p := &Pipeline{
		target:   target,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		registry: keymap.NewRegistry(),
		stats:    NewStats(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.sched == nil {
		p.sched = loop.NewInline(p.logger)
	}
	p.tracker = tracker.New(p.sched)

	elements, attributes := block.DefaultElements, block.DefaultAttributes
	if p.customElements {
		elements = p.blockElements
	}
	if p.customAttributes {
		attributes = p.blockAttributes
	}
	p.blockElements, p.blockAttributes = nil, nil
	p.blocker = block.NewWith(elements, attributes)

	p.executor = dispatch.NewExecutor(dispatch.WithPanicHandler(p.handlePanic))
	return p
}

// On registers h for pattern. With keymap.Once the entry replaces every
// existing entry for pattern.
func (p *Pipeline) On(pattern string, h dispatch.Handler, opts ...keymap.Option) keymap.Entry {
	e := p.registry.On(pattern, h, opts...)
	p.logger.Debug("registered shortcut",
		"pattern", pattern,
		"entry", e.ID,
		"once", e.Once)
	return e
}

// Off removes every entry of pattern bound to h and returns how many were
// removed. Unknown patterns and handlers are ignored. See keymap.Registry.Off
// for handlers that can only be removed by ID.
func (p *Pipeline) Off(pattern string, h dispatch.Handler) int {
	return p.registry.Off(pattern, h)
}

// OffID removes a single registration.
func (p *Pipeline) OffID(pattern string, id uuid.UUID) bool {
	return p.registry.OffID(pattern, id)
}

// OffAll removes pattern and every entry bound to it.
func (p *Pipeline) OffAll(pattern string) {
	p.registry.OffAll(pattern)
}

// Trigger invokes every handler registered under the exact pattern key,
// without matching, in the caller's goroutine. Returned futures are not
// awaited and errors are only logged.
func (p *Pipeline) Trigger(pattern string, ev *key.Event) {
	entries := p.registry.Entries(pattern)
	handlers := make([]dispatch.Handler, len(entries))
	for i, e := range entries {
		handlers[i] = e.Handler
	}
	for i, res := range p.executor.CallAll(handlers, ev) {
		e := entries[i]
		p.stats.recordCall(res)
		if res.Error != nil {
			p.logger.Debug("triggered handler failed",
				"pattern", pattern,
				"entry", e.ID,
				"error", res.Error)
		}
	}
}

// Start subscribes to the target. Calling Start while listening does nothing.
func (p *Pipeline) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.listening {
		return
	}
	p.listening = true
	if p.target != nil {
		p.unlisten = p.target.Listen(p)
	}
	p.logger.Debug("pipeline listening")
}

// Stop unsubscribes from the target and clears both the tracker and the
// registry. Registrations must be made again after a restart.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	unlisten := p.unlisten
	p.unlisten = nil
	p.listening = false
	p.mu.Unlock()

	if unlisten != nil {
		unlisten()
	}
	p.tracker.Reset()
	p.registry.Clear()
	p.logger.Debug("pipeline stopped")
}

// Listening reports whether the pipeline accepts signals.
func (p *Pipeline) Listening() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listening
}

// HandleKeyDown implements Listener.
func (p *Pipeline) HandleKeyDown(ev *key.Event) {
	p.post("keydown", func() { p.keyDown(ev) })
}

// HandleKeyUp implements Listener.
func (p *Pipeline) HandleKeyUp(ev *key.Event) {
	p.post("keyup", func() { p.keyUp(ev) })
}

// HandleBlur implements Listener.
func (p *Pipeline) HandleBlur() {
	p.post("blur", p.blur)
}

func (p *Pipeline) post(signal string, fn func()) {
	if !p.Listening() {
		return
	}
	if err := p.sched.Post(fn); err != nil {
		p.stats.droppedSignals.Add(1)
		p.logger.Debug("dropped signal", "signal", signal, "error", err)
	}
}

func (p *Pipeline) keyDown(ev *key.Event) {
	p.stats.keyDowns.Add(1)
	id, code := ev.ID(), ev.PhysicalCode()
	p.tracker.KeyDown(id, code)

	if p.blocker.Blocked(ev.Target) {
		p.stats.blocked.Add(1)
		p.logger.Debug("key blocked by element", "key", id, "code", code)
		return
	}

	p.Execute(ev)

	if tracker.NeedsRelease(ev) {
		p.tracker.ReleaseLater(id, code)
	}
}

func (p *Pipeline) keyUp(ev *key.Event) {
	p.stats.keyUps.Add(1)
	p.tracker.KeyUp(ev.ID(), ev.PhysicalCode())
}

func (p *Pipeline) blur() {
	p.stats.blurs.Add(1)
	p.tracker.Blur()
}

// Execute runs a dispatch pass for ev against the current tracker state and
// returns a future resolved when the pass completes or aborts. The pass runs
// synchronously until a handler returns a pending future; the remainder runs
// on the scheduler.
func (p *Pipeline) Execute(ev *key.Event) *dispatch.Future {
	ps := newPass(p, ev)
	ps.run()
	return ps.future
}

func (p *Pipeline) handlePanic(ev *key.Event, value any, stack []byte) {
	p.logger.Error("shortcut handler panicked",
		"key", ev.ID(),
		"panic", value,
		"stack", string(stack))
	if p.onPanic != nil {
		p.onPanic(ev, value, stack)
	}
}

// Patterns returns the registered pattern keys in dispatch order.
func (p *Pipeline) Patterns() []string {
	return p.registry.Patterns()
}

// Entries returns the registrations for pattern.
func (p *Pipeline) Entries(pattern string) []keymap.Entry {
	return p.registry.Entries(pattern)
}

// Registry exposes the underlying registry for bulk inspection.
func (p *Pipeline) Registry() *keymap.Registry {
	return p.registry
}

// Pressed returns the held key identifiers in press order.
func (p *Pipeline) Pressed() []string {
	return p.tracker.Keys()
}

// PressedCodes returns the held physical codes in press order.
func (p *Pipeline) PressedCodes() []string {
	return p.tracker.Codes()
}

// Stats returns the pipeline counters.
func (p *Pipeline) Stats() *Stats {
	return p.stats
}

// AddBlockElement blocks dispatch for signals from elements with this tag.
func (p *Pipeline) AddBlockElement(name string) {
	p.blocker.AddElement(name)
}

// RemoveBlockElement removes a blocked tag name.
func (p *Pipeline) RemoveBlockElement(name string) {
	p.blocker.RemoveElement(name)
}

// AddBlockAttribute blocks dispatch for signals from elements carrying, or
// nested in an element carrying, this attribute.
func (p *Pipeline) AddBlockAttribute(name string) {
	p.blocker.AddAttribute(name)
}

// RemoveBlockAttribute removes a blocked attribute name.
func (p *Pipeline) RemoveBlockAttribute(name string) {
	p.blocker.RemoveAttribute(name)
}

// BlockElements returns the blocked tag names.
func (p *Pipeline) BlockElements() []string {
	return p.blocker.Elements()
}

// BlockAttributes returns the blocked attribute names.
func (p *Pipeline) BlockAttributes() []string {
	return p.blocker.Attributes()
}

var (
	_ Listener         = (*Pipeline)(nil)
	_ keymap.Registrar = (*Pipeline)(nil)
)
