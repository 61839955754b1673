package keymap

import (
	"fmt"

	"github.com/dshills/keychord/internal/event/dispatch"
)

// Resolver turns a binding into the handler it names.
type Resolver interface {
	Resolve(b Binding) (dispatch.Handler, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(b Binding) (dispatch.Handler, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(b Binding) (dispatch.Handler, error) {
	return f(b)
}

// Actions resolves bindings by their Action name.
type Actions map[string]dispatch.Handler

// Resolve implements Resolver.
func (a Actions) Resolve(b Binding) (dispatch.Handler, error) {
	if b.Action == "" {
		return nil, fmt.Errorf("%w: no action", ErrUnresolved)
	}
	h, ok := a[b.Action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrUnresolved, b.Action)
	}
	return h, nil
}

// Names returns the action names. Order is unspecified.
func (a Actions) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	return names
}

// Apply resolves every binding of km and registers them with r.
// Nothing is registered when any binding fails to resolve.
func Apply(r Registrar, km *Keymap, resolver Resolver) ([]Entry, error) {
	if err := km.Validate(); err != nil {
		return nil, err
	}

	handlers := make([]dispatch.Handler, len(km.Bindings))
	for i, b := range km.Bindings {
		h, err := resolver.Resolve(b)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, b.Keys, err)
		}
		handlers[i] = h
	}

	entries := make([]Entry, 0, len(km.Bindings))
	for i, b := range km.Bindings {
		entries = append(entries, r.On(b.Keys, handlers[i], b.Options(km.Source)...))
	}
	return entries, nil
}
