// Package script runs Lua snippets as shortcut handlers.
//
// An Engine owns a single sandboxed Lua state; only the base, table, string
// and math libraries are available. Each handler chunk is compiled once and
// run with a global event table describing the key signal:
//
//	event.key      -- logical identifier as reported, e.g. "s"
//	event.code     -- physical code, e.g. "KeyS"
//	event.type     -- "keydown" or "keyup"
//	event.meta, event.ctrl, event.alt, event.shift, event["repeat"]
//
// and three functions: prevent_default(), stop_propagation() and log(msg).
// A Lua error, including a timeout, becomes the handler's error.
//
//	eng := script.New(script.WithLogger(logger))
//	defer eng.Close()
//	h, err := eng.Handler(`if event.shift then prevent_default() end log("saved")`)
package script
