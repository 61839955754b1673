package dispatch

import (
	"context"
	"reflect"
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// Handler reacts to a key event that matched its pattern.
type Handler interface {
	Handle(ev *key.Event) *Future
}

// HandlerFunc adapts a function to the Handler interface. Functions have no
// identity, so a HandlerFunc is never Same as another handler; wrap it with
// Func when it must be removable by handler.
type HandlerFunc func(ev *key.Event) *Future

// Handle implements Handler.
func (f HandlerFunc) Handle(ev *key.Event) *Future {
	return f(ev)
}

type funcHandler struct {
	fn HandlerFunc
}

func (h *funcHandler) Handle(ev *key.Event) *Future {
	return h.fn(ev)
}

// Func wraps fn in a handler with its own identity.
func Func(fn func(ev *key.Event) *Future) Handler {
	return &funcHandler{fn: fn}
}

type syncHandler struct {
	fn func(ev *key.Event) error
}

func (h *syncHandler) Handle(ev *key.Event) *Future {
	if err := h.fn(ev); err != nil {
		return Resolved(err)
	}
	return nil
}

// Sync wraps a function that completes before returning.
func Sync(fn func(ev *key.Event) error) Handler {
	return &syncHandler{fn: fn}
}

type asyncHandler struct {
	ctx context.Context
	fn  func(ctx context.Context, ev *key.Event) error
}

func (h *asyncHandler) Handle(ev *key.Event) *Future {
	f, resolve := NewFuture()
	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r, Stack: stack()}
			}
			resolve(err)
		}()
		err = h.fn(h.ctx, ev)
	}()
	return f
}

// Async wraps a function whose body runs on its own goroutine. The returned
// handler yields a pending future resolved with the function's error.
// Panics in the body resolve the future with a *PanicError.
func Async(fn func(ctx context.Context, ev *key.Event) error) Handler {
	return AsyncContext(context.Background(), fn)
}

// AsyncContext is Async with a caller-supplied context passed to every call.
func AsyncContext(ctx context.Context, fn func(ctx context.Context, ev *key.Event) error) Handler {
	return &asyncHandler{ctx: ctx, fn: fn}
}

// Same reports whether a and b are the same handler. Handlers of func or
// other non-comparable types are never the same as anything, including
// themselves; remove those by entry ID.
func Same(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

// Result represents the outcome of invoking a handler.
type Result struct {
	// Future is what the handler returned. Nil when it panicked.
	Future *Future

	// Error is set when the handler panicked or returned an already
	// failed future.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// Duration is how long the call took, excluding any pending work.
	Duration time.Duration
}

// Pending reports whether the handler returned unfinished work.
func (r Result) Pending() bool {
	return r.Error == nil && r.Future != nil && !r.Future.Ready()
}

// IsSuccess returns true if the call completed without error or panic.
// A pending result is not yet successful.
func (r Result) IsSuccess() bool {
	return r.Error == nil && !r.Panicked && !r.Pending()
}

// PanicHandler is called when a handler panics during execution.
// It receives the event being processed, the panic value, and the stack trace.
type PanicHandler func(ev *key.Event, panicValue any, stack []byte)

// ErrorHandler is called when a dispatch pass is aborted by an error.
type ErrorHandler func(ev *key.Event, pattern string, err error)

// defaultPanicHandler is a no-op panic handler.
func defaultPanicHandler(*key.Event, any, []byte) {}
