// Package dispatch defines the handler contract used by the shortcut
// pipeline and the machinery for invoking handlers safely.
//
// # Handlers and Futures
//
// A Handler receives the key event and returns a *Future. Synchronous
// handlers return a resolved future (or nil, which counts as resolved with
// no error). Asynchronous handlers return a pending future and resolve it
// when their work completes. The pipeline awaits each pending future before
// invoking the next handler, so side effects are strictly ordered.
//
//	save := dispatch.Sync(func(ev *key.Event) error {
//	    return doc.Save()
//	})
//
//	upload := dispatch.Async(func(ctx context.Context, ev *key.Event) error {
//	    return client.Upload(ctx, doc)
//	})
//
// # Panic Recovery
//
// The Executor recovers panics raised while a handler is being called and
// reports them as *PanicError, so a misbehaving handler aborts only the
// current dispatch pass instead of the whole event loop.
//
// # Identity
//
// Handlers are removed by identity. Same compares two handlers: pointer and
// other comparable values compare with ==, function values compare by code
// pointer. Sync and Async return distinct pointers on every call, so keep
// the returned value to remove it later.
package dispatch
