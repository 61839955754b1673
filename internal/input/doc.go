// Package input dispatches keyboard shortcuts.
//
// A Pipeline subscribes to a Target (the surface key signals come from),
// tracks which keys are held and runs the handlers registered for every
// combination pattern the held keys match.
//
// # Signal Flow
//
// Each signal is posted to the pipeline's Scheduler and processed there:
//
//   - Key-down: the key is recorded in the tracker. If the originating element
//     is blocked (text inputs by default) processing stops. Otherwise a
//     dispatch pass runs, and keys pressed while the platform meta modifier is
//     held are released again after the pass's synchronous segment.
//   - Key-up: the key is removed from the tracker.
//   - Blur: the tracker is cleared.
//
// # Dispatch Passes
//
// A pass visits registered patterns in insertion order and, for every pattern
// matching the tracker state, invokes its entries in registration order.
// Handlers run strictly one after another: when a handler returns a pending
// future the pass suspends and resumes on the scheduler once it resolves.
// A handler error or panic aborts the rest of the pass.
//
// # Usage
//
//	l := loop.New()
//	go l.Run(ctx)
//
//	p := input.New(source, input.WithScheduler(l), input.WithLogger(logger))
//	p.On("control+s|meta+s", dispatch.Sync(save), keymap.PreventDefault())
//	p.On("f5", dispatch.Async(reload))
//	p.Start()
//	defer p.Stop()
package input
