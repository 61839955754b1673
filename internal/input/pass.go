package input

import (
	"errors"
	"time"

	"github.com/dshills/keychord/internal/event/dispatch"
	"github.com/dshills/keychord/internal/input/key"
	"github.com/dshills/keychord/internal/input/keymap"
)

// pass is one dispatch sweep over the registry for a key-down.
//
// The pattern order is fixed when the pass starts. Each pattern's entry list
// is read when the pass reaches it, so patterns removed in the meantime are
// skipped and entries added to a pattern already being visited are not run.
type pass struct {
	p  *Pipeline
	ev *key.Event

	patterns []string
	next     int

	pattern string
	entries []keymap.Entry
	cursor  int

	started time.Time
	future  *dispatch.Future
	resolve dispatch.Resolve
}

func newPass(p *Pipeline, ev *key.Event) *pass {
	f, resolve := dispatch.NewFuture()
	return &pass{
		p:        p,
		ev:       ev,
		patterns: p.registry.Patterns(),
		started:  time.Now(),
		future:   f,
		resolve:  resolve,
	}
}

// run executes entries until the pass finishes, aborts or suspends on a
// pending future.
func (ps *pass) run() {
	for {
		if ps.cursor >= len(ps.entries) {
			if !ps.advance() {
				ps.finish(nil)
				return
			}
			continue
		}

		e := ps.entries[ps.cursor]
		ps.cursor++

		if e.PreventDefault {
			ps.ev.PreventDefault()
		}
		if e.StopPropagation {
			ps.ev.StopPropagation()
		}

		res := ps.p.executor.Call(e.Handler, ps.ev)
		ps.p.stats.recordCall(res)
		if res.Error != nil {
			ps.finish(res.Error)
			return
		}
		if res.Pending() {
			ps.suspend(e, res.Future)
			return
		}
	}
}

// advance moves to the next registered pattern that matches the tracker.
func (ps *pass) advance() bool {
	for ps.next < len(ps.patterns) {
		pattern := ps.patterns[ps.next]
		ps.next++

		compiled, entries, ok := ps.p.registry.Lookup(pattern)
		if !ok || len(entries) == 0 {
			continue
		}
		if !ps.p.tracker.Match(compiled) {
			continue
		}

		ps.p.logger.Debug("shortcut matched",
			"pattern", pattern,
			"key", ps.ev.ID(),
			"entries", len(entries))
		ps.pattern = pattern
		ps.entries = entries
		ps.cursor = 0
		return true
	}
	return false
}

// suspend waits for f and resumes the pass on the scheduler.
func (ps *pass) suspend(e keymap.Entry, f *dispatch.Future) {
	ps.p.stats.suspensions.Add(1)
	ps.p.logger.Debug("awaiting handler", "pattern", ps.pattern, "entry", e.ID)

	f.Then(func(err error) {
		var perr *dispatch.PanicError
		switch {
		case errors.As(err, &perr):
			ps.p.stats.panics.Add(1)
			ps.p.handlePanic(ps.ev, perr.Value, perr.Stack)
		case err != nil:
			ps.p.stats.handlerErrs.Add(1)
		}
		postErr := ps.p.sched.Post(func() {
			if err != nil {
				ps.finish(err)
				return
			}
			ps.run()
		})
		if postErr != nil {
			ps.finish(postErr)
		}
	})
}

// finish resolves the pass future and reports errors.
func (ps *pass) finish(err error) {
	ps.p.stats.recordPass(time.Since(ps.started), err)

	if err != nil {
		var perr *dispatch.PanicError
		if !errors.As(err, &perr) {
			ps.p.logger.Warn("dispatch aborted",
				"pattern", ps.pattern,
				"key", ps.ev.ID(),
				"error", err)
		}
		ps.reportError(err)
	}
	ps.resolve(err)
}

func (ps *pass) reportError(err error) {
	if ps.p.onError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			ps.p.logger.Error("error handler panicked", "panic", r)
		}
	}()
	ps.p.onError(ps.ev, ps.pattern, err)
}
