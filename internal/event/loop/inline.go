package loop

import (
	"io"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Inline runs tasks on whichever goroutine posts them, one at a time.
//
// A Post made while another task is running is queued and executed by the
// goroutine already draining, after the current task and its microtasks.
// Inline needs no Run call, which makes it convenient for hosts that already
// deliver signals from a single goroutine and for deterministic tests.
type Inline struct {
	mu       sync.Mutex
	tasks    []func()
	micro    []func()
	draining bool

	logger *slog.Logger
}

// NewInline creates an inline scheduler. A nil logger discards panic reports.
func NewInline(logger *slog.Logger) *Inline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Inline{logger: logger}
}

// Post runs fn now when idle, otherwise queues it behind the running task.
// It never fails.
func (s *Inline) Post(fn func()) error {
	s.mu.Lock()
	s.tasks = append(s.tasks, fn)
	if s.draining {
		s.mu.Unlock()
		return nil
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
	return nil
}

// Defer queues fn to run after the current task. Outside a task, fn runs
// immediately.
func (s *Inline) Defer(fn func()) {
	s.mu.Lock()
	s.micro = append(s.micro, fn)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *Inline) drain() {
	for {
		s.mu.Lock()
		var fn func()
		switch {
		case len(s.micro) > 0:
			fn = s.micro[0]
			s.micro[0] = nil
			s.micro = s.micro[1:]
		case len(s.tasks) > 0:
			fn = s.tasks[0]
			s.tasks[0] = nil
			s.tasks = s.tasks[1:]
		default:
			s.draining = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.call(fn)
	}
}

func (s *Inline) call(fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic in inline task",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
