package input

import (
	"log/slog"

	"github.com/dshills/keychord/internal/event/dispatch"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithScheduler sets the scheduler signals and pass continuations run on.
// The default is an inline scheduler running work on the delivering goroutine.
func WithScheduler(s Scheduler) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.sched = s
		}
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithBlockElements replaces the default blocked tag names.
func WithBlockElements(names ...string) Option {
	return func(p *Pipeline) {
		p.blockElements = names
		p.customElements = true
	}
}

// WithBlockAttributes replaces the default blocked attribute names.
func WithBlockAttributes(names ...string) Option {
	return func(p *Pipeline) {
		p.blockAttributes = names
		p.customAttributes = true
	}
}

// WithErrorHandler sets a callback for passes aborted by a handler error.
func WithErrorHandler(h dispatch.ErrorHandler) Option {
	return func(p *Pipeline) {
		p.onError = h
	}
}

// WithPanicHandler sets a callback for handler panics.
func WithPanicHandler(h dispatch.PanicHandler) Option {
	return func(p *Pipeline) {
		p.onPanic = h
	}
}
