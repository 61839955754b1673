package key

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/keychord/internal/input/element"
)

func TestNewKeyDown(t *testing.T) {
	e := NewKeyDown("A", "KeyA", ModShift)

	assert.Equal(t, TypeKeyDown, e.Type)
	assert.Equal(t, "a", e.ID())
	assert.Equal(t, "keya", e.PhysicalCode())
	assert.True(t, e.Modifiers.HasShift())
	assert.False(t, e.Timestamp.IsZero())
	assert.Nil(t, e.Target)
}

func TestNewKeyUp(t *testing.T) {
	e := NewKeyUp("Control", "ControlLeft", ModNone)

	assert.Equal(t, TypeKeyUp, e.Type)
	assert.Equal(t, "control", e.ID())
	assert.True(t, e.IsModifierKey())
}

func TestEventWithTarget(t *testing.T) {
	input := element.New("input")
	e := NewKeyDown("a", "KeyA", ModNone).WithTarget(input)
	assert.Equal(t, "input", e.Target.LocalName())
}

func TestEventSideEffects(t *testing.T) {
	e := NewKeyDown("s", "KeyS", ModCtrl)
	assert.False(t, e.DefaultPrevented())
	assert.False(t, e.PropagationStopped())

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); e.PreventDefault() }()
	go func() { defer wg.Done(); e.StopPropagation() }()
	wg.Wait()

	assert.True(t, e.DefaultPrevented())
	assert.True(t, e.PropagationStopped())
}

func TestEventString(t *testing.T) {
	tests := []struct {
		name  string
		event *Event
		want  string
	}{
		{"plain", NewKeyDown("a", "KeyA", ModNone), "keydown a (KeyA)"},
		{"modified", NewKeyDown("s", "KeyS", ModCtrl), "keydown Ctrl+s (KeyS)"},
		{"modifier key", NewKeyDown("Control", "ControlLeft", ModCtrl), "keydown Control (ControlLeft)"},
		{"same code", NewKeyUp("Enter", "Enter", ModNone), "keyup Enter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.String())
		})
	}
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "keydown", TypeKeyDown.String())
	assert.Equal(t, "keyup", TypeKeyUp.String())
	assert.Equal(t, "unknown", Type(0).String())
}
