package loop

import (
	"context"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// task is a queued unit of work. done, when set, is closed after the task
// and every microtask it queued have run.
type task struct {
	fn   func()
	done chan struct{}
}

// Loop runs tasks and microtasks on a single goroutine.
type Loop struct {
	mu     sync.Mutex
	tasks  []task
	micro  []func()
	inTask bool
	closed bool

	wake    chan struct{}
	stop    chan struct{}
	running atomic.Bool

	logger *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used to report recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loop. Call Run to start processing.
func New(opts ...Option) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post enqueues fn as a task. It is safe to call from any goroutine,
// including from inside a task.
func (l *Loop) Post(fn func()) error {
	return l.enqueue(task{fn: fn})
}

// Do posts fn and blocks until it and its microtasks have run.
// Calling Do from the loop goroutine deadlocks.
func (l *Loop) Do(fn func()) error {
	done := make(chan struct{})
	if err := l.enqueue(task{fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-l.stop:
		// The loop may have run the task just before stopping.
		select {
		case <-done:
			return nil
		default:
			return ErrClosed
		}
	}
}

func (l *Loop) enqueue(t task) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.tasks = append(l.tasks, t)
	l.mu.Unlock()
	l.signal()
	return nil
}

// Defer queues fn to run after the current task, before the next one.
// Called outside a task, fn runs at the next drain point.
func (l *Loop) Defer(fn func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.micro = append(l.micro, fn)
	idle := !l.inTask
	l.mu.Unlock()
	if idle {
		l.signal()
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is cancelled or Close is called.
// It returns nil after Close and ctx.Err() on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		// Microtasks queued from outside any task drain first.
		l.drainMicrotasks()

		for {
			t, ok := l.next()
			if !ok {
				break
			}
			l.runTask(t)
		}

		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.stop:
			return nil
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return task{}, false
	}
	t := l.tasks[0]
	l.tasks[0] = task{}
	l.tasks = l.tasks[1:]
	l.inTask = true
	return t, true
}

func (l *Loop) runTask(t task) {
	l.safeCall(t.fn)
	l.drainMicrotasks()
	if t.done != nil {
		close(t.done)
	}
}

// drainMicrotasks runs queued microtasks until none remain and then marks
// the loop idle under the same lock, so a concurrent Defer either lands in
// this drain or sees the loop idle and wakes it.
func (l *Loop) drainMicrotasks() {
	for {
		l.mu.Lock()
		if len(l.micro) == 0 {
			l.inTask = false
			l.mu.Unlock()
			return
		}
		fn := l.micro[0]
		l.micro[0] = nil
		l.micro = l.micro[1:]
		l.inTask = true
		l.mu.Unlock()

		l.safeCall(fn)
	}
}

func (l *Loop) safeCall(fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("recovered panic in event loop task",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Close stops the loop. Pending tasks are dropped; Do callers waiting on
// them receive ErrClosed. Close is idempotent.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.tasks = nil
	l.micro = nil
	l.mu.Unlock()
	close(l.stop)
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l.running.Load()
}
