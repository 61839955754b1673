package cmd

import (
	"github.com/dshills/keychord/internal/input"
	"github.com/dshills/keychord/internal/input/key"
)

// observedTarget calls after once a listener has handled each signal, so
// work posted by after queues behind the work the listener posted.
type observedTarget struct {
	input.Target
	after func()
}

func (t observedTarget) Listen(l input.Listener) func() {
	return t.Target.Listen(observer{Listener: l, after: t.after})
}

type observer struct {
	input.Listener
	after func()
}

func (o observer) HandleKeyDown(ev *key.Event) {
	o.Listener.HandleKeyDown(ev)
	o.after()
}

func (o observer) HandleKeyUp(ev *key.Event) {
	o.Listener.HandleKeyUp(ev)
	o.after()
}

func (o observer) HandleBlur() {
	o.Listener.HandleBlur()
	o.after()
}
