package dispatch

import (
	"runtime/debug"
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// Executor handles the actual invocation of handlers with
// panic recovery and timing.
type Executor struct {
	panicHandler PanicHandler
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the panic handler for the executor.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		if h != nil {
			e.panicHandler = h
		}
	}
}

// Call invokes handler with ev and returns the result.
// It recovers from panics and captures timing information.
func (e *Executor) Call(handler Handler, ev *key.Event) (result Result) {
	if handler == nil {
		return Result{Error: ErrNilHandler}
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			st := debug.Stack()

			result.Future = nil
			result.Panicked = true
			result.Error = &PanicError{Value: r, Stack: st}

			// Protect the panic handler call - don't let it crash the loop
			func() {
				defer func() {
					_ = recover()
				}()
				e.panicHandler(ev, r, st)
			}()
		}
	}()

	result.Future = handler.Handle(ev)
	if result.Future.Ready() {
		result.Error = result.Future.Err()
	}
	return result
}

// CallAll invokes every handler in order, ignoring pending futures.
// Used for fire-and-forget triggering; results are returned in order.
func (e *Executor) CallAll(handlers []Handler, ev *key.Event) []Result {
	results := make([]Result, len(handlers))
	for i, h := range handlers {
		results[i] = e.Call(h, ev)
	}
	return results
}

func stack() []byte {
	return debug.Stack()
}
