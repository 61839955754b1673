// Package loop provides a single-goroutine cooperative event loop.
//
// All key signals, dispatch passes and handler invocations of a pipeline run
// on one loop goroutine, so the tracker state and registry are only mutated
// from a single place. The loop distinguishes two queues:
//
//   - Tasks, added with Post from any goroutine, run one at a time in FIFO
//     order.
//   - Microtasks, added with Defer, run after the current task finishes and
//     before the next task starts. Microtasks queued by a microtask run in the
//     same drain.
//
// The split mirrors a browser event loop: a key-down handler can Defer work
// that must observe the end of the current dispatch segment but must still
// happen before the next key signal is processed.
//
// # Usage
//
//	l := loop.New(loop.WithLogger(logger))
//	go l.Run(ctx)
//	defer l.Close()
//
//	_ = l.Post(func() {
//	    l.Defer(func() { fmt.Println("second") })
//	    fmt.Println("first")
//	})
package loop
