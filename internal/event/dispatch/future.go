package dispatch

import (
	"context"
	"sync"
)

// Future is the result of a handler call that may complete later.
// A nil *Future is resolved with no error.
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

// Resolve completes a future. Only the first call has an effect.
type Resolve func(err error)

// NewFuture returns a pending future and the function that resolves it.
func NewFuture() (*Future, Resolve) {
	f := &Future{done: make(chan struct{})}
	return f, f.resolve
}

// Resolved returns a future that is already complete with err.
func Resolved(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the future resolves.
func (f *Future) Done() <-chan struct{} {
	if f == nil {
		return closedChan
	}
	return f.done
}

// Ready reports whether the future has resolved.
func (f *Future) Ready() bool {
	select {
	case <-f.Done():
		return true
	default:
		return false
	}
}

// Err returns the resolution error. It is nil until the future resolves.
func (f *Future) Err() error {
	if f == nil || !f.Ready() {
		return nil
	}
	return f.err
}

// Await blocks until the future resolves or ctx is done.
func (f *Future) Await(ctx context.Context) error {
	select {
	case <-f.Done():
		return f.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Then calls fn with the resolution error once the future resolves.
// fn runs on its own goroutine, or immediately if already resolved.
func (f *Future) Then(fn func(err error)) {
	if f.Ready() {
		fn(f.Err())
		return
	}
	go func() {
		<-f.done
		fn(f.err)
	}()
}

var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()
